package client

import (
	"time"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/eventloop"
	"github.com/kbukum/asynchttp/logger"
	"github.com/kbukum/asynchttp/netutil"
	"github.com/kbukum/asynchttp/security"
	"github.com/kbukum/asynchttp/validation"
	"github.com/kbukum/asynchttp/wire"
)

const (
	// ServiceName is the default client name and configuration service name.
	ServiceName = "asynchttp"

	defaultConnectTimeout = 5 * time.Second
)

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs, metrics and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// ConnectTimeout bounds the TCP connect. Defaults to 5s.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gt=0"`

	// ReadTimeout is the longest silence tolerated while waiting for
	// response bytes. Defaults to ConnectTimeout.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`

	// MaxBodyBytes caps a buffered response body. Defaults to 10 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`

	// AllowedNetworks restricts dial destinations to these CIDR prefixes
	// (or single addresses). Empty allows everything.
	AllowedNetworks []string `yaml:"allowed_networks" mapstructure:"allowed_networks"`

	// Workers sizes the event loop that runs attempts.
	Workers eventloop.Config `yaml:"workers" mapstructure:"workers"`

	// TLS configures the default session provisioner for https targets.
	// Nil uses the system roots.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Logging configures the client logger when WithLogger is not used.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = c.ConnectTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = wire.DefaultMaxBodyBytes
	}
	if c.Workers.Name == "" {
		c.Workers.Name = c.Name
	}
	c.Workers.ApplyDefaults()
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Workers.Validate(); err != nil {
		return err
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Configuration("invalid logging configuration", err)
	}
	if _, err := netutil.ParsePrefixes(c.AllowedNetworks); err != nil {
		return errors.Configuration("invalid allowed_networks entry", err)
	}
	return nil
}
