package client

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/netutil"
	"github.com/kbukum/asynchttp/observability"
	"github.com/kbukum/asynchttp/security"
	"github.com/kbukum/asynchttp/signing"
)

// Option customizes a Client at construction.
type Option func(*Client)

// WithLogger replaces the logger built from Config.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSessionFactory supplies TLS sessions for https targets instead of the
// built-in provisioner.
func WithSessionFactory(f security.SessionFactory) Option {
	return func(c *Client) { c.sessions = f }
}

// WithSigner replaces the HMAC-SHA256 signer used by Thruput.
func WithSigner(s signing.Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithMetrics records attempt metrics on m.
func WithMetrics(m *observability.AttemptMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer records attempt spans on t instead of the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithStateObserver is called on every attempt state transition, on the
// worker goroutine running the attempt.
func WithStateObserver(fn StateObserver) Option {
	return func(c *Client) { c.observer = fn }
}

// WithAllowedNetworks adds destination prefixes to Config.AllowedNetworks.
func WithAllowedNetworks(prefixes ...netutil.Prefix) Option {
	return func(c *Client) { c.allowed = append(c.allowed, prefixes...) }
}
