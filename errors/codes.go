package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Usage errors, surfaced synchronously at the call site.
const (
	// ErrCodeConfiguration indicates invalid configuration or key material.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeShutdown indicates the client has been shut down.
	ErrCodeShutdown ErrorCode = "CLIENT_SHUT_DOWN"
	// ErrCodeInvalidInput indicates a malformed URL, scheme or method.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeQueueFull indicates the event loop cannot accept more work.
	ErrCodeQueueFull ErrorCode = "QUEUE_FULL"
)

// Runtime faults, delivered asynchronously through the completion handler.
const (
	// ErrCodeTransport indicates DNS, connect, handshake or I/O failure.
	ErrCodeTransport ErrorCode = "TRANSPORT"
	// ErrCodeTimeout indicates a connect or idle-read timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeProtocol indicates malformed or non-HTTP bytes.
	ErrCodeProtocol ErrorCode = "PROTOCOL"
)
