package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"golang.org/x/net/http2"

	"github.com/kbukum/h2bridge/body"
	goerrors "github.com/kbukum/h2bridge/errors"
	"github.com/kbukum/h2bridge/logger"
	"github.com/kbukum/h2bridge/observability"
)

// DialFunc opens the raw connection the HTTP/2 handshake runs over.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Builder dials and negotiates HTTP/2 client connections and wraps them in
// the connection variant the caller asks for.
type Builder struct {
	cfg       Config
	transport *http2.Transport
	tlsConfig *tls.Config
	dial      DialFunc
	log       *logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithDialer replaces the TCP dialer, e.g. with an in-memory pipe in tests.
func WithDialer(d DialFunc) Option {
	return func(b *Builder) { b.dial = d }
}

// NewBuilder validates cfg and prepares the HTTP/2 transport.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tlsConfig, err := cfg.TLS.Build()
	if err != nil {
		return nil, goerrors.InvalidInput("tls", err.Error()).WithCause(err)
	}

	b := &Builder{
		cfg:       cfg,
		tlsConfig: tlsConfig,
		dial:      (&net.Dialer{Timeout: cfg.DialTimeout}).DialContext,
		transport: &http2.Transport{
			AllowHTTP:                  !cfg.TLS.Enabled,
			ReadIdleTimeout:            cfg.HTTP2.ReadIdleTimeout,
			PingTimeout:                cfg.HTTP2.PingTimeout,
			WriteByteTimeout:           cfg.HTTP2.WriteByteTimeout,
			MaxHeaderListSize:          cfg.HTTP2.MaxHeaderListSize,
			StrictMaxConcurrentStreams: cfg.HTTP2.StrictMaxConcurrentStreams,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.GetGlobalLogger()
	}
	b.log = b.log.WithComponent("h2bridge." + cfg.Name)

	return b, nil
}

// Config returns the builder's configuration with defaults applied.
func (b *Builder) Config() Config {
	return b.cfg
}

// Dial opens the raw connection and, with TLS enabled, negotiates "h2" via
// ALPN.
func (b *Builder) Dial(ctx context.Context) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, b.cfg.DialTimeout)
	defer cancel()

	conn, err := b.dial(dialCtx, "tcp", b.cfg.Address)
	if err != nil {
		return nil, goerrors.ConnectionFailed(b.cfg.Address).WithCause(err)
	}
	if b.tlsConfig == nil {
		return conn, nil
	}

	tlsConn := tls.Client(conn, b.tlsConfig.Clone())
	if err := tlsConn.HandshakeContext(dialCtx); err != nil {
		_ = conn.Close()
		return nil, goerrors.ConnectionFailed(b.cfg.Address).WithCause(err)
	}
	if proto := tlsConn.ConnectionState().NegotiatedProtocol; proto != http2.NextProtoTLS {
		_ = tlsConn.Close()
		return nil, goerrors.ConnectionFailed(b.cfg.Address).
			WithCause(fmt.Errorf("server negotiated %q instead of %q", proto, http2.NextProtoTLS))
	}
	return tlsConn, nil
}

// Handshake runs the HTTP/2 client preface over an open connection.
func (b *Builder) Handshake(conn net.Conn) (*http2.ClientConn, error) {
	cc, err := b.transport.NewClientConn(conn)
	if err != nil {
		_ = conn.Close()
		return nil, goerrors.ConnectionFailed(b.cfg.Address).WithCause(err)
	}
	b.log.Debug("http2 connection established", logger.Fields(
		"address", b.cfg.Address,
		"authority", b.cfg.Authority,
		"tls", b.cfg.TLS.Enabled,
	))
	return cc, nil
}

// Open dials and handshakes in one step, inside a handshake span.
func (b *Builder) Open(ctx context.Context) (*http2.ClientConn, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanHandshake)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrServerAddress, b.cfg.Address)

	conn, err := b.Dial(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		b.log.Warn("dial failed", logger.ErrorFields("dial", err))
		return nil, err
	}
	cc, err := b.Handshake(conn)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return cc, nil
}

// Native wraps cc for the native path.
func Native[B body.Payload](b *Builder, cc *http2.ClientConn) *Connection[B] {
	return NewConnection[B](NewH2Sender[B](cc, b.cfg))
}

// Lifted wraps cc for the lifted path.
func Lifted[S body.BufStream](b *Builder, cc *http2.ClientConn) *LiftedConnection[S] {
	return NewLiftedConnection[S](NewH2Sender[*body.LiftedStream[S]](cc, b.cfg))
}
