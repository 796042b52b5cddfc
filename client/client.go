package client

import (
	"context"
	"crypto/tls"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/eventloop"
	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/netutil"
	"github.com/kbukum/asynchttp/observability"
	"github.com/kbukum/asynchttp/pipeline"
	"github.com/kbukum/asynchttp/security"
	"github.com/kbukum/asynchttp/signing"
	"github.com/kbukum/asynchttp/wire"
)

// Header names and MIME type used by Thruput.
const (
	HeaderAuth = "X-Io-Auth"
	HeaderSign = "X-Io-Sign"
	MIMEJSON   = "application/json"
)

// Callback receives the response of a Get/Post/Put/Thruput call, or nil if
// the attempt failed for any reason. It runs on a worker goroutine.
type Callback func(*wire.Response)

// Client issues one-shot HTTP/1.1 requests. It is safe for concurrent use.
type Client struct {
	cfg Config
	cb  Callback
	log *logger.Logger

	loop        *eventloop.Loop
	dialer      net.Dialer
	provisioner *security.Provisioner
	sessions    security.SessionFactory
	signer      signing.Signer
	metrics     *observability.AttemptMetrics
	tracer      trace.Tracer
	observer    StateObserver
	allowed     []netutil.Prefix

	disabled atomic.Bool
	inflight atomic.Int64
}

// New validates cfg and returns a ready client. cb may be nil when only Do
// is used.
func New(cfg Config, cb Callback, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		cb:     cb,
		signer: signing.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New(&cfg.Logging, cfg.Name)
	}
	c.log = c.log.WithComponent("client")
	if c.tracer == nil {
		c.tracer = observability.Tracer(cfg.Name)
	}

	prefixes, err := netutil.ParsePrefixes(cfg.AllowedNetworks)
	if err != nil {
		return nil, errors.Configuration("invalid allowed_networks entry", err)
	}
	c.allowed = append(prefixes, c.allowed...)

	c.provisioner = security.NewProvisioner(cfg.TLS)
	c.loop = eventloop.New(cfg.Workers, c.log)
	c.dialer = net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: -1,
		Control:   netutil.DialControl(c.allowed),
	}

	c.log.Info("client created", logger.Fields(
		"connect_timeout", cfg.ConnectTimeout.String(),
		"read_timeout", cfg.ReadTimeout.String(),
		"max_workers", cfg.Workers.MaxWorkers,
		"allowed_networks", len(c.allowed),
	))
	return c, nil
}

// NewWithTimeout creates a client whose connect (and idle read) timeout is
// the given number of seconds. Zero selects the 5 second default.
func NewWithTimeout(seconds int, cb Callback, opts ...Option) (*Client, error) {
	cfg := Config{ConnectTimeout: time.Duration(seconds) * time.Second}
	return New(cfg, cb, opts...)
}

// Get issues a GET.
func (c *Client) Get(url string, headers map[string]string) error {
	t, err := wire.ParseTarget(url)
	if err != nil {
		return err
	}
	req, err := wire.BuildGet(t, headers)
	if err != nil {
		return err
	}
	return c.send(t, req, c.collapse())
}

// Post sends body with the given MIME type. An empty method means POST;
// any other verb that carries a body may be passed.
func (c *Client) Post(url, mime string, body []byte, headers map[string]string, method string) error {
	if method == "" {
		method = "POST"
	}
	t, err := wire.ParseTarget(url)
	if err != nil {
		return err
	}
	req, err := wire.BuildBodyRequest(t, method, mime, body, headers)
	if err != nil {
		return err
	}
	return c.send(t, req, c.collapse())
}

// Put is Post with method PUT.
func (c *Client) Put(url, mime string, body []byte, headers map[string]string) error {
	return c.Post(url, mime, body, headers, "PUT")
}

// Thruput PUTs a JSON payload carrying the caller's auth key and a
// signature of the exact payload bytes under signKey.
func (c *Client) Thruput(url, authKey, signKey string, payload []byte) error {
	headers := map[string]string{
		HeaderAuth: authKey,
		HeaderSign: c.signer.Sign(signKey, payload),
	}
	return c.Put(url, MIMEJSON, payload, headers)
}

// Do sends any request and reports the tagged Result to handler instead of
// the client callback. A request with neither body nor mime is sent
// without Content-Type and Content-Length.
func (c *Client) Do(method, url, mime string, body []byte, headers map[string]string, handler pipeline.Handler) error {
	t, err := wire.ParseTarget(url)
	if err != nil {
		return err
	}
	var req *wire.Request
	if body == nil && mime == "" {
		req, err = wire.BuildRequest(t, method, headers)
	} else {
		req, err = wire.BuildBodyRequest(t, method, mime, body, headers)
	}
	if err != nil {
		return err
	}
	return c.send(t, req, handler)
}

// collapse adapts the client callback to the tagged result: every failure
// becomes a nil response.
func (c *Client) collapse() pipeline.Handler {
	cb := c.cb
	return func(r pipeline.Result) {
		if cb == nil {
			return
		}
		if r.OK() {
			cb(r.Response)
			return
		}
		cb(nil)
	}
}

// send queues one attempt. It never blocks on the network.
func (c *Client) send(t wire.Target, req *wire.Request, handler pipeline.Handler) error {
	if c.disabled.Load() {
		return errors.Shutdown()
	}

	var session *tls.Config
	if t.TLS() {
		s, err := c.session(t)
		if err != nil {
			return err
		}
		session = s
	}

	a := &attempt{
		id:     uuid.NewString(),
		client: c,
		target: t,
		req:    req,
		dialer: c.dialer,
	}
	a.log = c.log.WithFields(logger.Fields(
		logger.FieldAttemptID, a.id,
		logger.FieldTarget, t.Address(),
	))
	a.pipe = pipeline.Assemble(pipeline.Config{
		ReadTimeout:  c.cfg.ReadTimeout,
		Session:      session,
		MaxBodyBytes: c.cfg.MaxBodyBytes,
		Logger:       a.log,
	}, a.deliver(handler))

	if err := c.loop.Submit(a.run); err != nil {
		a.log.Warn("attempt rejected", logger.ErrorFields("submit", err))
		return err
	}
	return nil
}

// session resolves a fresh TLS config for t. Factory failures are
// configuration errors surfaced to the caller of send.
func (c *Client) session(t wire.Target) (*tls.Config, error) {
	if c.sessions == nil {
		return c.provisioner.ClientSession(t.Host, t.Port)
	}
	s, err := c.sessions.ClientSession(t.Host, t.Port)
	if err != nil {
		if errors.IsConfiguration(err) {
			return nil, err
		}
		return nil, errors.Configuration("session factory failed", err).WithDetail("host", t.Host)
	}
	if s == nil {
		return nil, errors.Configuration("session factory returned no session", nil).WithDetail("host", t.Host)
	}
	s = s.Clone()
	if s.ServerName == "" {
		s.ServerName = t.Host
	}
	return s, nil
}

// Shutdown disables the client, aborts in-flight connections and waits for
// workers to exit or ctx to expire. Only the first call has any effect.
func (c *Client) Shutdown(ctx context.Context) error {
	if !c.disabled.CompareAndSwap(false, true) {
		return nil
	}
	c.log.Info("client shutting down", logger.Fields("in_flight", c.inflight.Load()))
	if err := c.loop.Shutdown(ctx); err != nil {
		c.log.Warn("client shutdown incomplete", logger.ErrorFields("shutdown", err))
		return err
	}
	c.log.Info("client stopped")
	return nil
}

// Disabled reports whether Shutdown has been called.
func (c *Client) Disabled() bool { return c.disabled.Load() }

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }
