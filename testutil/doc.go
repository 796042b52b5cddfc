// Package testutil provides test components for asynchttp.
//
// RawServer is a loopback HTTP/1.1 peer that records every request's exact
// bytes and answers with a scripted Responder:
//
//	srv := testutil.NewRawServer(testutil.OK("hello"))
//	testutil.T(t).Setup(srv)
//	client.Get(srv.URL("/path"), nil)
//	raw := srv.Requests()[0]
//
// Components registered through T(t).Setup are stopped when the test ends.
package testutil
