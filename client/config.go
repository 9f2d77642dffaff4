package client

import (
	"net"
	"time"

	goerrors "github.com/kbukum/h2bridge/errors"
	"github.com/kbukum/h2bridge/validation"
)

const (
	defaultName              = "h2bridge"
	defaultDialTimeout       = 10 * time.Second
	defaultReadyPollInterval = 5 * time.Millisecond
)

// Mode selects which connection variant a caller builds.
type Mode string

const (
	// ModeNative sends body.Payload requests and receives *body.Incoming.
	ModeNative Mode = "native"
	// ModeLifted sends body.BufStream requests and receives lifted bodies.
	ModeLifted Mode = "lifted"
)

// Config configures the connection builder.
type Config struct {
	// Name identifies the connection in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`
	// Address is the host:port to dial.
	Address string `yaml:"address" mapstructure:"address" validate:"required,hostname_port"`
	// Authority is sent as :authority. Defaults to Address.
	Authority string `yaml:"authority" mapstructure:"authority"`
	// Scheme is sent as :scheme. Defaults to "https" with TLS, "http" otherwise.
	Scheme string `yaml:"scheme" mapstructure:"scheme" validate:"omitempty,oneof=http https"`
	// Mode selects the native or lifted path. Defaults to native.
	Mode Mode `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=native lifted"`
	// DialTimeout bounds dialing and the TLS handshake. Defaults to 10s.
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	// ReadyPollInterval is how often a provider adapter re-polls a connection
	// that is not ready. Defaults to 5ms.
	ReadyPollInterval time.Duration `yaml:"ready_poll_interval" mapstructure:"ready_poll_interval"`
	// ChunkSize is the maximum size of a response body chunk. Defaults to
	// body.DefaultChunkSize.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=0"`

	HTTP2 HTTP2Config `yaml:"http2" mapstructure:"http2"`
	TLS   TLSConfig   `yaml:"tls" mapstructure:"tls"`
}

// HTTP2Config carries the x/net/http2 transport settings.
type HTTP2Config struct {
	ReadIdleTimeout            time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout"`
	PingTimeout                time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout"`
	WriteByteTimeout           time.Duration `yaml:"write_byte_timeout" mapstructure:"write_byte_timeout"`
	MaxHeaderListSize          uint32        `yaml:"max_header_list_size" mapstructure:"max_header_list_size"`
	StrictMaxConcurrentStreams bool          `yaml:"strict_max_concurrent_streams" mapstructure:"strict_max_concurrent_streams"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Authority == "" {
		c.Authority = c.Address
	}
	if c.Scheme == "" {
		c.Scheme = "http"
		if c.TLS.Enabled {
			c.Scheme = "https"
		}
	}
	if c.Mode == "" {
		c.Mode = ModeNative
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.ReadyPollInterval <= 0 {
		c.ReadyPollInterval = defaultReadyPollInterval
	}
	if c.TLS.Enabled && c.TLS.ServerName == "" {
		if host, _, err := net.SplitHostPort(c.Address); err == nil {
			c.TLS.ServerName = host
		}
	}
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Scheme == "https" && !c.TLS.Enabled {
		return goerrors.InvalidInput("scheme", "https requires tls.enabled")
	}
	return c.TLS.Validate()
}
