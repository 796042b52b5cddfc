package pipeline

import (
	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/wire"
)

// Reason classifies why an exchange produced no response.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonTransport Reason = "transport"
	ReasonTimeout   Reason = "timeout"
	ReasonProtocol  Reason = "protocol"
	ReasonShutdown  Reason = "shutdown"
)

// Result is the outcome of one exchange: either a Response, or an Err with
// its Reason.
type Result struct {
	Response *wire.Response
	Err      error
	Reason   Reason
}

// OK reports whether a response was delivered.
func (r Result) OK() bool { return r.Response != nil && r.Err == nil }

// Handler receives the Result of an exchange. It is called exactly once.
type Handler func(Result)

// ReasonOf maps an error to its Reason by AppError code. Unknown errors are
// treated as transport failures.
func ReasonOf(err error) Reason {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return ReasonTransport
	}
	switch appErr.Code {
	case errors.ErrCodeTimeout:
		return ReasonTimeout
	case errors.ErrCodeProtocol:
		return ReasonProtocol
	case errors.ErrCodeShutdown:
		return ReasonShutdown
	default:
		return ReasonTransport
	}
}
