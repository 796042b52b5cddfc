package pipeline

import (
	stderrors "errors"
	"net"
	"sync/atomic"
	"time"
)

type idleTimeoutError struct{}

func (idleTimeoutError) Error() string   { return "idle read timeout" }
func (idleTimeoutError) Timeout() bool   { return true }
func (idleTimeoutError) Temporary() bool { return true }

// ErrIdleTimeout is returned by reads on a connection that stayed silent
// for longer than the configured read timeout. It is a net.Error with
// Timeout() == true.
var ErrIdleTimeout net.Error = idleTimeoutError{}

// idleConn arms a read deadline on wrap and after every successful read.
// When the deadline fires the underlying socket is closed.
type idleConn struct {
	net.Conn
	timeout time.Duration
	fired   atomic.Bool
}

func newIdleConn(conn net.Conn, timeout time.Duration) *idleConn {
	c := &idleConn{Conn: conn, timeout: timeout}
	c.arm()
	return c
}

func (c *idleConn) arm() {
	if c.timeout > 0 {
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.timeout))
	}
}

func (c *idleConn) Read(p []byte) (int, error) {
	if c.fired.Load() {
		return 0, ErrIdleTimeout
	}
	n, err := c.Conn.Read(p)
	if err != nil {
		var ne net.Error
		if stderrors.As(err, &ne) && ne.Timeout() {
			c.fired.Store(true)
			_ = c.Conn.Close()
			return n, ErrIdleTimeout
		}
		return n, err
	}
	if n > 0 {
		c.arm()
	}
	return n, nil
}

func (c *idleConn) Write(p []byte) (int, error) {
	if c.timeout > 0 {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	return c.Conn.Write(p)
}

// TimedOut reports whether the idle deadline has fired.
func (c *idleConn) TimedOut() bool { return c.fired.Load() }
