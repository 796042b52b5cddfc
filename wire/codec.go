package wire

import (
	"bufio"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/kbukum/asynchttp/errors"
)

// DefaultMaxBodyBytes bounds a buffered response body when the codec has no
// explicit limit.
const DefaultMaxBodyBytes int64 = 10 << 20

// Codec frames requests onto a connection and reads responses back.
type Codec struct {
	// MaxBodyBytes caps the buffered response body. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Encode validates req and writes it to w in one flush. Invalid tokens or
// field values fail with a PROTOCOL error before anything is written; write
// failures are classified as TRANSPORT or TIMEOUT.
func (c Codec) Encode(w io.Writer, req *Request) error {
	if err := validate(req); err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w, 4096+len(req.Body))
	bw.WriteString(req.Method)
	bw.WriteByte(' ')
	bw.WriteString(req.Path)
	bw.WriteByte(' ')
	bw.WriteString(Proto)
	bw.WriteString("\r\n")
	req.Header.Each(func(name, value string) {
		bw.WriteString(name)
		bw.WriteString(": ")
		bw.WriteString(value)
		bw.WriteString("\r\n")
	})
	bw.WriteString("\r\n")
	bw.Write(req.Body)
	if err := bw.Flush(); err != nil {
		return classifyIO(req.Target.Authority, "write", err)
	}
	return nil
}

func validate(req *Request) error {
	if !httpguts.ValidHeaderFieldName(req.Method) {
		return errors.Protocol("invalid request method", nil).WithDetail("method", req.Method)
	}
	if req.Path == "" || strings.ContainsAny(req.Path, " \r\n\t") {
		return errors.Protocol("invalid request target", nil).WithDetail("path", req.Path)
	}
	var bad *errors.AppError
	req.Header.Each(func(name, value string) {
		if bad != nil {
			return
		}
		if !httpguts.ValidHeaderFieldName(name) {
			bad = errors.Protocol("invalid header name", nil).WithDetail("header", name)
		} else if !httpguts.ValidHeaderFieldValue(value) {
			bad = errors.Protocol("invalid header value", nil).WithDetail("header", name)
		}
	})
	if bad != nil {
		return bad
	}
	return nil
}

// Decode reads one final response from br. Interim 1xx responses other than
// 101 Switching Protocols are read and discarded.
func (c Codec) Decode(br *bufio.Reader, target string) (*Response, error) {
	return c.decode(br, target, nil)
}

// DecodeFor is Decode for the response to req. A HEAD response is read
// without a body even when it advertises a Content-Length.
func (c Codec) DecodeFor(br *bufio.Reader, req *Request) (*Response, error) {
	return c.decode(br, req.Target.Authority, &http.Request{Method: req.Method})
}

func (c Codec) decode(br *bufio.Reader, target string, hreq *http.Request) (*Response, error) {
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	for {
		if _, err := br.Peek(1); err != nil {
			return nil, classifyIO(target, "read", err)
		}

		hr, err := http.ReadResponse(br, hreq)
		if err != nil {
			return nil, classifyDecode(target, err)
		}
		if hr.StatusCode >= 100 && hr.StatusCode < 200 && hr.StatusCode != http.StatusSwitchingProtocols {
			_ = hr.Body.Close()
			continue
		}

		body, err := io.ReadAll(io.LimitReader(hr.Body, limit+1))
		_ = hr.Body.Close()
		if err != nil {
			return nil, classifyDecode(target, err)
		}
		if int64(len(body)) > limit {
			return nil, errors.Protocol("response body exceeds limit", nil).WithDetail("limit", limit)
		}

		return &Response{
			StatusCode: hr.StatusCode,
			Status:     hr.Status,
			Proto:      hr.Proto,
			ProtoMajor: hr.ProtoMajor,
			ProtoMinor: hr.ProtoMinor,
			Header:     hr.Header,
			Body:       body,
		}, nil
	}
}

// classifyIO maps a raw connection error: deadlines become TIMEOUT, the rest
// (EOF included) TRANSPORT.
func classifyIO(target, op string, err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Timeout(op, err).WithDetail("target", target)
	}
	return errors.Transport(target, err)
}

// classifyDecode maps an error raised after response bytes arrived. Only
// connection-level errors stay TRANSPORT or TIMEOUT; everything else is
// malformed or truncated input.
func classifyDecode(target string, err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) || stderrors.Is(err, net.ErrClosed) {
		return classifyIO(target, "read", err)
	}
	return errors.Protocol("malformed response", err).WithDetail("target", target)
}
