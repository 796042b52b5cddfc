// Package wire turns a URL plus caller headers into a single HTTP/1.1
// request and frames it on and off a connection.
//
// A request is always one-shot: Host and "Connection: close" are forced,
// body requests carry Content-Type and an exact Content-Length, and the
// response is fully buffered before it is handed back.
//
//	t, _ := wire.ParseTarget("https://api.example.com/v1/items?limit=5")
//	req, _ := wire.BuildGet(t, map[string]string{"Accept": "application/json"})
//	_ = wire.Codec{}.Encode(conn, req)
package wire
