package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// Configuration reports invalid configuration or unusable key material.
func Configuration(message string, cause error) *AppError {
	return New(ErrCodeConfiguration, message).WithCause(cause)
}

// Shutdown reports a call made after the client was shut down.
func Shutdown() *AppError {
	return New(ErrCodeShutdown, "client shut down")
}

// InvalidInput reports a malformed argument.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation reports a failed struct validation.
func Validation(message string) *AppError {
	return New(ErrCodeConfiguration, message)
}

// QueueFull reports that the event loop rejected a task.
func QueueFull(loop string) *AppError {
	return New(ErrCodeQueueFull, "event loop queue is full").WithDetail("loop", loop)
}

// Transport reports a network-level failure for target.
func Transport(target string, cause error) *AppError {
	return New(ErrCodeTransport, fmt.Sprintf("transport failure talking to %s", target)).
		WithCause(cause).WithDetail("target", target)
}

// Timeout reports an elapsed connect or idle-read deadline.
func Timeout(operation string, cause error) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s timed out", operation)).
		WithCause(cause).WithDetail("operation", operation)
}

// Protocol reports bytes that could not be encoded or decoded as HTTP/1.1.
func Protocol(message string, cause error) *AppError {
	return New(ErrCodeProtocol, message).WithCause(cause)
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsShutdown reports whether err is a CLIENT_SHUT_DOWN error.
func IsShutdown(err error) bool { return IsCode(err, ErrCodeShutdown) }

// IsConfiguration reports whether err is a CONFIGURATION error.
func IsConfiguration(err error) bool { return IsCode(err, ErrCodeConfiguration) }
