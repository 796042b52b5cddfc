// Package config loads typed configuration structs with Viper.
//
// Values come, lowest precedence first, from a YAML file, a .env file and
// the process environment. Environment keys are the upper-cased
// mapstructure path joined by underscores under a prefix, so with prefix
// "asynchttp" the field at workers.max_workers is ASYNCHTTP_WORKERS_MAX_WORKERS.
//
// # Usage
//
//	var cfg client.Config
//	err := config.Load("asynchttp", &cfg, config.WithConfigFile("client.yml"))
package config
