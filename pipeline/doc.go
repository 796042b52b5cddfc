// Package pipeline assembles the per-connection processing chain for one
// request/response exchange.
//
// Stages run in a fixed order:
//
//   - idle-timeout: bounds the wait between reads and closes the socket when
//     it elapses
//   - tls: client handshake, present only when a session config is supplied
//   - http-codec: encodes the request and decodes a fully buffered response
//   - dispatch: hands the outcome to the caller's Handler exactly once and
//     closes the connection
//
// A Pipeline is single-use. The owner calls Open with a connected socket,
// then Write and Await; Fail is for faults that happen before a socket
// exists.
//
//	p := pipeline.Assemble(pipeline.Config{ReadTimeout: 5 * time.Second}, func(r pipeline.Result) {
//	    if r.OK() {
//	        fmt.Println(r.Response.StatusCode)
//	    }
//	})
//	if err := p.Open(ctx, conn); err == nil && p.Write(req) == nil {
//	    p.Await()
//	}
package pipeline
