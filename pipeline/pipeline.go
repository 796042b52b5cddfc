package pipeline

import (
	"bufio"
	"context"
	"crypto/tls"
	stderrors "errors"
	"net"
	"time"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/wire"
)

// Stage names, in pipeline order.
const (
	StageIdleTimeout = "idle-timeout"
	StageTLS         = "tls"
	StageCodec       = "http-codec"
	StageDispatch    = "dispatch"
)

// Config describes one pipeline.
type Config struct {
	// ReadTimeout bounds the silence between reads. Zero disables it.
	ReadTimeout time.Duration
	// Session enables the TLS stage when non-nil. It must not be shared
	// between pipelines.
	Session *tls.Config
	// MaxBodyBytes caps the buffered response body.
	MaxBodyBytes int64
	Logger       *logger.Logger
}

// Pipeline is the single-use processing chain of one connection.
type Pipeline struct {
	cfg        Config
	stages     []string
	codec      wire.Codec
	dispatcher *Dispatcher
	log        *logger.Logger

	ctx    context.Context
	conn   net.Conn
	idle   *idleConn
	br     *bufio.Reader
	req    *wire.Request
	target string
}

// Assemble builds a pipeline that reports to handler.
func Assemble(cfg Config, handler Handler) *Pipeline {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	stages := []string{StageIdleTimeout}
	if cfg.Session != nil {
		stages = append(stages, StageTLS)
	}
	stages = append(stages, StageCodec, StageDispatch)

	return &Pipeline{
		cfg:        cfg,
		stages:     stages,
		codec:      wire.Codec{MaxBodyBytes: cfg.MaxBodyBytes},
		dispatcher: NewDispatcher(handler, log),
		log:        log,
		ctx:        context.Background(),
	}
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	out := make([]string, len(p.stages))
	copy(out, p.stages)
	return out
}

// Dispatcher returns the terminal stage.
func (p *Pipeline) Dispatcher() *Dispatcher { return p.dispatcher }

// Open installs the stages on conn. Cancelling ctx makes later faults
// report ReasonShutdown. A TLS handshake failure is dispatched before Open
// returns it.
func (p *Pipeline) Open(ctx context.Context, conn net.Conn) error {
	if ctx != nil {
		p.ctx = ctx
	}
	p.target = conn.RemoteAddr().String()
	p.idle = newIdleConn(conn, p.cfg.ReadTimeout)
	p.conn = p.idle
	p.dispatcher.Bind(p.conn)

	if p.cfg.Session != nil {
		tc := tls.Client(p.idle, p.cfg.Session)
		p.conn = tc
		p.dispatcher.Bind(tc)
		if err := tc.HandshakeContext(p.ctx); err != nil {
			appErr := handshakeError(p.cfg.Session.ServerName, err)
			p.fault(appErr)
			return appErr
		}
	}

	p.br = bufio.NewReader(p.conn)
	return nil
}

func handshakeError(server string, err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Timeout("tls handshake", err).WithDetail("target", server)
	}
	return errors.Transport(server, err).WithDetail("stage", StageTLS)
}

// Write encodes req onto the connection. On failure the fault is dispatched
// and returned.
func (p *Pipeline) Write(req *wire.Request) error {
	p.req = req
	if req.Target.Authority != "" {
		p.target = req.Target.Authority
	}
	if err := p.codec.Encode(p.conn, req); err != nil {
		p.fault(err)
		return err
	}
	return nil
}

// Await reads the response and dispatches it or the fault.
func (p *Pipeline) Await() {
	var (
		resp *wire.Response
		err  error
	)
	if p.req != nil {
		resp, err = p.codec.DecodeFor(p.br, p.req)
	} else {
		resp, err = p.codec.Decode(p.br, p.target)
	}
	if err != nil {
		p.fault(err)
		return
	}
	p.dispatcher.Deliver(resp)
}

// Fail dispatches a fault raised outside the stages, such as a failed
// connect. ReasonNone derives the reason from err.
func (p *Pipeline) Fail(err error, reason Reason) {
	p.dispatcher.Fault(err, reason)
}

func (p *Pipeline) fault(err error) {
	reason := ReasonOf(err)
	if p.ctx.Err() != nil {
		reason = ReasonShutdown
		err = errors.Shutdown().WithCause(err)
	} else if p.idle != nil && p.idle.TimedOut() && reason != ReasonTimeout {
		reason = ReasonTimeout
		err = errors.Timeout("read", err)
	}
	p.log.Debug("pipeline fault", logger.Fields(
		logger.FieldTarget, p.target,
		logger.FieldReason, string(reason),
		logger.FieldError, err.Error(),
	))
	p.dispatcher.Fault(err, reason)
}
