package netutil

import (
	"fmt"
	"net"
	"net/netip"
	"syscall"
)

// ErrDestinationNotAllowed is returned by a dial Control when the resolved
// address falls outside the allow-list.
type ErrDestinationNotAllowed struct {
	Address string
}

func (e *ErrDestinationNotAllowed) Error() string {
	return fmt.Sprintf("netutil: destination %s is not in an allowed network", e.Address)
}

// DialControl returns a net.Dialer Control hook that enables SO_REUSEADDR
// and, when allowed is non-empty, refuses destinations outside it. The hook
// sees the already-resolved address, so DNS answers are checked too.
func DialControl(allowed []Prefix) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		if len(allowed) > 0 {
			ap, err := netip.ParseAddrPort(address)
			if err != nil {
				return fmt.Errorf("netutil: parse dial address %q: %w", address, err)
			}
			if !ContainsAny(allowed, ap.Addr()) {
				return &ErrDestinationNotAllowed{Address: address}
			}
		}

		var sockErr error
		if err := c.Control(func(fd uintptr) {
			sockErr = setReuseAddr(fd)
		}); err != nil {
			return err
		}
		return sockErr
	}
}

// TuneTCP applies the per-connection options: no delay, keep-alive off and
// linger 0 so Close aborts instead of lingering. Non-TCP conns are left alone.
func TuneTCP(conn net.Conn) error {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tcp.SetNoDelay(true); err != nil {
		return fmt.Errorf("netutil: set nodelay: %w", err)
	}
	if err := tcp.SetKeepAlive(false); err != nil {
		return fmt.Errorf("netutil: disable keepalive: %w", err)
	}
	if err := tcp.SetLinger(0); err != nil {
		return fmt.Errorf("netutil: set linger: %w", err)
	}
	return nil
}
