package bootstrap

import (
	"github.com/kbukum/h2bridge/config"
)

// Config is the interface constraint for application configuration types.
// Embedding config.ServiceConfig provides all three methods; binaries with
// their own sections override ApplyDefaults and Validate and call the
// embedded ones first.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Client client.Config `yaml:"client" mapstructure:"client"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
