package pipeline

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/wire"
)

// Dispatcher is the terminal stage. It invokes the handler at most once and
// then closes the bound connection.
type Dispatcher struct {
	once    sync.Once
	handler Handler
	log     *logger.Logger

	mu   sync.Mutex
	conn io.Closer

	fired atomic.Bool
	late  atomic.Int64
}

// NewDispatcher returns a Dispatcher for handler. A nil handler discards
// results.
func NewDispatcher(handler Handler, log *logger.Logger) *Dispatcher {
	if handler == nil {
		handler = func(Result) {}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{handler: handler, log: log}
}

// Bind sets the connection closed after dispatch. A later Bind replaces the
// earlier one, which lets the TLS stage rebind to the wrapping conn.
func (d *Dispatcher) Bind(c io.Closer) {
	d.mu.Lock()
	d.conn = c
	d.mu.Unlock()
}

// Deliver hands resp to the handler. A response with an implausible status
// or protocol version is converted into a protocol fault.
func (d *Dispatcher) Deliver(resp *wire.Response) {
	if !resp.WellFormed() {
		d.Fault(errors.Protocol("response is not well-formed HTTP/1.x", nil), ReasonProtocol)
		return
	}
	d.dispatch(Result{Response: resp})
}

// Fault hands err to the handler.
func (d *Dispatcher) Fault(err error, reason Reason) {
	if reason == ReasonNone {
		reason = ReasonOf(err)
	}
	d.dispatch(Result{Err: err, Reason: reason})
}

// Done reports whether the handler has been invoked.
func (d *Dispatcher) Done() bool { return d.fired.Load() }

// Late returns how many deliveries arrived after the first one.
func (d *Dispatcher) Late() int64 { return d.late.Load() }

func (d *Dispatcher) dispatch(r Result) {
	first := false
	d.once.Do(func() {
		first = true
		d.fired.Store(true)
		defer d.closeConn()
		d.handler(r)
	})
	if !first {
		n := d.late.Add(1)
		d.log.Debug("late dispatch ignored", logger.Fields(
			logger.FieldReason, string(r.Reason),
			"late_count", n,
		))
	}
}

func (d *Dispatcher) closeConn() {
	d.mu.Lock()
	c := d.conn
	d.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}
