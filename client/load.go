package client

import (
	"github.com/kbukum/asynchttp/config"
	"github.com/kbukum/asynchttp/errors"
)

// LoadConfig reads the client configuration from asynchttp.yml (or the
// other standard locations), a .env file and ASYNCHTTP_* environment
// variables, then applies defaults and validates it.
func LoadConfig(opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.Load(ServiceName, &cfg, opts...); err != nil {
		return Config{}, errors.Configuration("load client configuration", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
