package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kbukum/h2bridge/client"
	"github.com/kbukum/h2bridge/config"
	"github.com/kbukum/h2bridge/observability"
	"github.com/kbukum/h2bridge/provider"
	"github.com/kbukum/h2bridge/validation"
	"github.com/kbukum/h2bridge/version"
)

const (
	serviceName = "h2bridge"
	envPrefix   = "H2BRIDGE"
)

// Config is the h2bridge configuration. Every key can be set from
// config.yml or from H2BRIDGE_<SECTION>_<KEY> environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client     client.Config              `yaml:"client" mapstructure:"client"`
	Request    RequestConfig              `yaml:"request" mapstructure:"request"`
	Tracing    observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics    observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	Resilience provider.ResilienceConfig  `yaml:"resilience" mapstructure:"resilience"`
}

// RequestConfig describes the single request the CLI sends.
type RequestConfig struct {
	Method string `yaml:"method" mapstructure:"method"`
	Path   string `yaml:"path" mapstructure:"path" validate:"startswith=/"`
	// Body is sent as the request body.
	Body string `yaml:"body" mapstructure:"body" validate:"excluded_with=BodyFile"`
	// BodyFile names a file to stream as the body; "-" reads stdin.
	BodyFile string            `yaml:"body_file" mapstructure:"body_file"`
	Header   map[string]string `yaml:"header" mapstructure:"header"`
	// Trailers are sent after the body. The lifted path cannot carry them.
	Trailers map[string]string `yaml:"trailers" mapstructure:"trailers"`
	// Timeout bounds the whole call, body included. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills in zero-valued fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Client.Name == "" {
		c.Client.Name = c.Name
	}
	c.Client.ApplyDefaults()

	if c.Request.Path == "" {
		c.Request.Path = "/"
	}
	if c.Request.Method == "" {
		c.Request.Method = http.MethodGet
		if c.Request.Body != "" || c.Request.BodyFile != "" {
			c.Request.Method = http.MethodPost
		}
	}
	c.Request.Method = strings.ToUpper(c.Request.Method)

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = c.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = observability.DefaultTracerConfig(c.Name).Endpoint
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = c.Version
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = observability.DefaultMeterConfig(c.Name).Endpoint
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := validation.Validate(&c.Request); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	return nil
}

// header returns the configured request header plus a generated
// X-Request-Id and the binary's User-Agent when those are not set.
func (r *RequestConfig) header(requestID string) http.Header {
	h := make(http.Header, len(r.Header)+2)
	for k, v := range r.Header {
		h.Set(k, v)
	}
	if h.Get("User-Agent") == "" {
		h.Set("User-Agent", version.UserAgent(serviceName))
	}
	if h.Get("X-Request-Id") == "" {
		h.Set("X-Request-Id", requestID)
	}
	return h
}

func (r *RequestConfig) trailers() http.Header {
	if len(r.Trailers) == 0 {
		return nil
	}
	h := make(http.Header, len(r.Trailers))
	for k, v := range r.Trailers {
		h.Set(k, v)
	}
	return h
}

// openBody returns the request body source. The caller closes it.
func (r *RequestConfig) openBody(stdin io.Reader) (io.ReadCloser, error) {
	switch r.BodyFile {
	case "":
		return io.NopCloser(strings.NewReader(r.Body)), nil
	case "-":
		return io.NopCloser(stdin), nil
	default:
		f, err := os.Open(r.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("opening request body: %w", err)
		}
		return f, nil
	}
}
