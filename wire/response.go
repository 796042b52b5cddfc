package wire

import "net/http"

// Response is a fully read HTTP/1.x response.
type Response struct {
	StatusCode int
	// Status is the full status line text, e.g. "200 OK".
	Status     string
	Proto      string
	ProtoMajor int
	ProtoMinor int
	Header     http.Header
	Body       []byte
}

// WellFormed reports whether the status code and protocol version are
// plausible for an HTTP/1.x response.
func (r *Response) WellFormed() bool {
	return r != nil && r.StatusCode >= 100 && r.StatusCode <= 999 && r.ProtoMajor == 1
}
