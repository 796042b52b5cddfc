package client

import (
	"context"
	"fmt"

	"github.com/kbukum/asynchttp/component"
	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/version"
)

var (
	_ component.Component   = (*Client)(nil)
	_ component.Describable = (*Client)(nil)
)

// Name returns the configured client name.
func (c *Client) Name() string { return c.cfg.Name }

// Start builds the default TLS store when TLS is configured so unusable key
// material is reported at startup rather than on the first https call.
func (c *Client) Start(_ context.Context) error {
	if c.disabled.Load() {
		return errors.Shutdown()
	}
	if c.cfg.TLS == nil || c.sessions != nil {
		return nil
	}
	return c.provisioner.Warm()
}

// Stop shuts the client down.
func (c *Client) Stop(ctx context.Context) error {
	return c.Shutdown(ctx)
}

// Health reports unhealthy after shutdown and degraded while the attempt
// queue is more than three quarters full.
func (c *Client) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.disabled.Load() {
		h.Status = component.StatusUnhealthy
		h.Message = "shut down"
		return h
	}
	s := c.loop.Stats()
	if s.Queued*4 > c.cfg.Workers.QueueSize*3 {
		h.Status = component.StatusDegraded
	}
	h.Message = fmt.Sprintf("in_flight=%d workers=%d queued=%d", c.inflight.Load(), s.Workers, s.Queued)
	return h
}

// Describe returns a one-line summary of the client.
func (c *Client) Describe() component.Description {
	return component.Description{
		Name: c.Name(),
		Type: "http-client",
		Details: fmt.Sprintf("version=%s connect_timeout=%s read_timeout=%s workers=%d queue=%d",
			version.Short(), c.cfg.ConnectTimeout, c.cfg.ReadTimeout, c.cfg.Workers.MaxWorkers, c.cfg.Workers.QueueSize),
	}
}
