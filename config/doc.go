// Package config loads service configuration from a YAML file, an optional
// .env file, and the process environment.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Client client.Config `yaml:"client" mapstructure:"client"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("h2bridge", &cfg)
//
// Environment variables override file values. Every mapstructure key of the
// target struct is bound to an upper-case variable with dots replaced by
// underscores, optionally prefixed (WithEnvPrefix("H2BRIDGE") binds
// client.address to H2BRIDGE_CLIENT_ADDRESS).
package config
