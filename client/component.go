package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/net/http2"

	"github.com/kbukum/h2bridge/component"
	"github.com/kbukum/h2bridge/logger"
)

// Component manages the lifecycle of one HTTP/2 client connection: it dials
// on Start, drains on Stop, and reports the connection state as health.
type Component struct {
	builder *Builder

	mu sync.RWMutex
	cc *http2.ClientConn
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent returns a component that opens connections with b.
func NewComponent(b *Builder) *Component {
	return &Component{builder: b}
}

// Name returns the configured connection name.
func (c *Component) Name() string {
	return c.builder.cfg.Name
}

// Start dials and handshakes.
func (c *Component) Start(ctx context.Context) error {
	cc, err := c.builder.Open(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cc = cc
	c.mu.Unlock()
	return nil
}

// Stop waits for in-flight streams, then closes. If ctx ends first the
// connection is closed immediately.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cc := c.cc
	c.cc = nil
	c.mu.Unlock()
	if cc == nil {
		return nil
	}

	if err := cc.Shutdown(ctx); err != nil {
		c.builder.log.Warn("graceful shutdown interrupted", logger.ErrorFields("shutdown", err))
		return cc.Close()
	}
	return nil
}

// Health maps the connection state onto component health.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name()}

	c.mu.RLock()
	cc := c.cc
	c.mu.RUnlock()

	switch {
	case cc == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not connected"
	case cc.State().Closed || cc.State().Closing:
		h.Status = component.StatusUnhealthy
		h.Message = ErrConnectionClosed.Error()
	case !cc.CanTakeNewRequest():
		st := cc.State()
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("stream limit reached (%d/%d)", st.StreamsActive+st.StreamsReserved, st.MaxConcurrentStreams)
	default:
		h.Status = component.StatusHealthy
	}
	return h
}

// Describe reports the endpoint for startup summaries.
func (c *Component) Describe() component.Description {
	cfg := c.builder.cfg
	return component.Description{
		Name:    "HTTP/2 connection",
		Type:    "http2",
		Details: fmt.Sprintf("%s://%s mode=%s", cfg.Scheme, cfg.Address, cfg.Mode),
	}
}

// ClientConn returns the open connection, or nil before Start.
func (c *Component) ClientConn() *http2.ClientConn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cc
}
