// Package client is a fire-and-forget HTTP/1.1 client: every call opens a
// fresh TCP (optionally TLS) connection, writes one request, hands the
// response or the failure to a completion callback and closes the socket.
//
// There is no pooling, keep-alive, redirect following or retrying. Calls
// return as soon as the attempt is queued; errors returned synchronously
// are usage errors (bad URL, client shut down, unusable TLS material, full
// queue). Everything that goes wrong on the network is reported through
// the callback as a nil response.
//
// # Usage
//
//	c, err := client.New(client.Config{ConnectTimeout: 3 * time.Second}, func(resp *wire.Response) {
//	    if resp == nil {
//	        return // transport, timeout or protocol failure
//	    }
//	    fmt.Println(resp.StatusCode, string(resp.Body))
//	})
//	defer c.Shutdown(context.Background())
//
//	_ = c.Get("https://example.com/status", nil)
//	_ = c.Post("http://10.0.0.5:8080/ingest", "application/json", payload, nil, "")
//
// Callers that need the failure reason use Do with a pipeline.Handler.
package client
