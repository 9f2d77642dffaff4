// Package validation validates configuration structs using struct tags.
//
//	type Config struct {
//	    Address string `mapstructure:"address" validate:"required,hostname_port"`
//	}
//	err := validation.Validate(&cfg)
//
// Field names in messages come from the mapstructure tag, so they match the
// keys users write in config files.
package validation
