package client

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/netutil"
	"github.com/kbukum/asynchttp/observability"
	"github.com/kbukum/asynchttp/pipeline"
	"github.com/kbukum/asynchttp/wire"
)

// attempt is one connect, write, read, close cycle. It is owned by the
// worker running it.
type attempt struct {
	id     string
	client *Client
	target wire.Target
	req    *wire.Request
	dialer net.Dialer
	pipe   *pipeline.Pipeline
	log    *logger.Logger
	obs    *observability.Attempt
	state  State
}

func (a *attempt) run(ctx context.Context) {
	c := a.client
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	a.obs = observability.StartAttempt(ctx, c.tracer, c.metrics, a.id, a.target.Address())
	// Carries the attempt span and the loop's cancellation.
	ctx = a.obs.Context()
	a.transition(StateConnecting)

	if ctx.Err() != nil {
		a.transition(StateFailed)
		a.pipe.Fail(errors.Shutdown(), pipeline.ReasonShutdown)
		return
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	conn, err := a.dialer.DialContext(dialCtx, "tcp", a.target.Address())
	cancel()
	if err != nil {
		a.transition(StateFailed)
		reason, failure := a.dialError(ctx, err)
		a.pipe.Fail(failure, reason)
		return
	}
	defer conn.Close()

	if err := netutil.TuneTCP(conn); err != nil {
		a.log.Debug("socket tuning failed", logger.ErrorFields("tune", err))
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	a.transition(StateWriting)
	if err := a.pipe.Open(ctx, conn); err != nil {
		a.transition(StateClosed)
		return
	}
	if err := a.pipe.Write(a.req); err != nil {
		a.transition(StateClosed)
		return
	}

	a.transition(StateAwaitingResponse)
	a.pipe.Await()
	a.transition(StateClosed)
}

// dialError classifies a failed connect.
func (a *attempt) dialError(ctx context.Context, err error) (pipeline.Reason, error) {
	addr := a.target.Address()
	if ctx.Err() != nil {
		return pipeline.ReasonShutdown, errors.Shutdown().WithCause(err)
	}
	var notAllowed *netutil.ErrDestinationNotAllowed
	if stderrors.As(err, &notAllowed) {
		return pipeline.ReasonTransport, errors.Transport(addr, err).WithDetail("reason", "destination not allowed")
	}
	var ne net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout()) {
		return pipeline.ReasonTimeout, errors.Timeout("connect", err).WithDetail("target", addr)
	}
	return pipeline.ReasonTransport, errors.Transport(addr, err)
}

// deliver wraps handler with attempt bookkeeping: span and metrics end
// before the caller sees the result.
func (a *attempt) deliver(handler pipeline.Handler) pipeline.Handler {
	return func(r pipeline.Result) {
		outcome := "ok"
		if !r.OK() {
			outcome = string(r.Reason)
		}
		if a.obs != nil {
			a.obs.End(outcome, r.Err)
		}

		if r.Err != nil {
			a.log.Warn("attempt failed", logger.Fields(
				logger.FieldReason, string(r.Reason),
				logger.FieldError, r.Err.Error(),
				logger.FieldState, a.state.String(),
			))
		} else {
			a.log.Debug("response received", logger.Fields(
				logger.FieldStatus, r.Response.StatusCode,
				"body_bytes", len(r.Response.Body),
			))
		}

		if handler != nil {
			handler(r)
		}
	}
}

func (a *attempt) transition(to State) {
	from := a.state
	a.state = to
	a.log.Debug("attempt state", logger.Fields(
		"from", from.String(),
		logger.FieldState, to.String(),
	))
	if obs := a.client.observer; obs != nil {
		obs(a.id, from, to)
	}
}
