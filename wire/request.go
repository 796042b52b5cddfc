package wire

import (
	"sort"
	"strconv"

	"golang.org/x/net/http/httpguts"

	"github.com/kbukum/asynchttp/errors"
)

// Proto is the only protocol version this package speaks.
const Proto = "HTTP/1.1"

// Request is an outbound HTTP/1.1 request.
type Request struct {
	Method string
	Path   string
	Proto  string
	Header Header
	Body   []byte
	Target Target
}

// BuildGet builds a GET for t. Caller headers are applied after the
// mandatory ones so their values win.
func BuildGet(t Target, headers map[string]string) (*Request, error) {
	return BuildRequest(t, "GET", headers)
}

// BuildRequest builds a request without a body for any method.
func BuildRequest(t Target, method string, headers map[string]string) (*Request, error) {
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, errors.InvalidInput("method", "not a valid token").WithDetail("method", method)
	}
	req := newRequest(t, method)
	applyHeaders(&req.Header, headers)
	return req, nil
}

// BuildBodyRequest builds a request carrying body as a single, fully sized
// payload. A nil body is sent as Content-Length: 0.
func BuildBodyRequest(t Target, method, mime string, body []byte, headers map[string]string) (*Request, error) {
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, errors.InvalidInput("method", "not a valid token").WithDetail("method", method)
	}
	req := newRequest(t, method)
	req.Header.Set("Content-Type", mime)
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.Body = body
	applyHeaders(&req.Header, headers)
	return req, nil
}

func newRequest(t Target, method string) *Request {
	req := &Request{
		Method: method,
		Path:   t.Path,
		Proto:  Proto,
		Target: t,
	}
	req.Header.Set("Host", t.Authority)
	req.Header.Set("Connection", "close")
	return req
}

// applyHeaders sets caller headers in sorted key order so that equal maps
// always produce identical bytes on the wire.
func applyHeaders(h *Header, headers map[string]string) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(k, headers[k])
	}
}
