package eventloop

import (
	"runtime"
	"time"

	"github.com/kbukum/asynchttp/validation"
)

// Config configures a Loop.
type Config struct {
	// Name identifies the loop in logs and errors.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxWorkers caps concurrently running tasks.
	// Defaults to 4*GOMAXPROCS, at least 8.
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers" validate:"gte=1"`
	// QueueSize is the number of tasks that may wait for a worker.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gte=1"`
	// IdleTimeout is how long a worker waits for work before exiting.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gt=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "eventloop"
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 4 * runtime.GOMAXPROCS(0)
		if c.MaxWorkers < 8 {
			c.MaxWorkers = 8
		}
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Second
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
