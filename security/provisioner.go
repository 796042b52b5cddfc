package security

import (
	"crypto/tls"
	"sync"

	"github.com/kbukum/asynchttp/errors"
)

// SessionFactory produces a client-mode TLS session for one connection.
type SessionFactory interface {
	ClientSession(host string, port int) (*tls.Config, error)
}

// SessionFactoryFunc adapts a function to SessionFactory.
type SessionFactoryFunc func(host string, port int) (*tls.Config, error)

// ClientSession calls f.
func (f SessionFactoryFunc) ClientSession(host string, port int) (*tls.Config, error) {
	return f(host, port)
}

// Provisioner is the default SessionFactory. The store is built at most once;
// a construction failure is cached and returned on every call.
type Provisioner struct {
	store func() (*tls.Config, error)
}

var _ SessionFactory = (*Provisioner)(nil)

// NewProvisioner creates a provisioner for cfg. Nothing is read from disk
// until the first ClientSession call.
func NewProvisioner(cfg *TLSConfig) *Provisioner {
	var snapshot *TLSConfig
	if cfg != nil {
		c := *cfg
		snapshot = &c
	}
	return &Provisioner{
		store: sync.OnceValues(snapshot.Build),
	}
}

// Warm builds the shared store without producing a session. It reports
// the same CONFIGURATION error every later ClientSession call would.
func (p *Provisioner) Warm() error {
	if _, err := p.store(); err != nil {
		return errors.Configuration("tls store unavailable", err)
	}
	return nil
}

// ClientSession returns a fresh session bound to host. The port is carried
// only for error reporting; verification is by host name.
func (p *Provisioner) ClientSession(host string, port int) (*tls.Config, error) {
	base, err := p.store()
	if err != nil {
		// The cached error is shared between callers, so wrap rather than annotate it.
		return nil, errors.Configuration("tls store unavailable", err).
			WithDetail("host", host).WithDetail("port", port)
	}
	session := base.Clone()
	if session.ServerName == "" {
		session.ServerName = host
	}
	return session, nil
}
