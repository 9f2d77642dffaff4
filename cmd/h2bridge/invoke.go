package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http2"

	"github.com/kbukum/h2bridge/body"
	"github.com/kbukum/h2bridge/client"
	"github.com/kbukum/h2bridge/logger"
	"github.com/kbukum/h2bridge/observability"
	"github.com/kbukum/h2bridge/provider"
)

// invocation is one request as the CLI describes it, independent of the
// connection path.
type invocation struct {
	Method   string
	Path     string
	Header   http.Header
	Body     io.Reader
	Trailers http.Header
}

// result is a response whose body has already been copied out.
type result struct {
	Proto    string
	Status   string
	Header   http.Header
	Trailers http.Header
	Bytes    int64
}

// caller sends invocations over one connection path.
type caller = provider.RequestResponse[*invocation, *result]

// newCaller wires the connection selected by cfg.Client.Mode into a provider
// chain. Logging, metrics, tracing and resilience wrap the connection itself,
// so they time the call up to the response head; the adapter around them
// streams the body into out.
func newCaller(cfg *Config, b *client.Builder, cc *http2.ClientConn, metrics *observability.Metrics, log *logger.Logger, out io.Writer) caller {
	name := cfg.Client.Name
	interval := cfg.Client.ReadyPollInterval
	chunkSize := cfg.Client.ChunkSize

	if cfg.Client.Mode == client.ModeLifted {
		conn := client.Lifted[*body.ReaderStream](b, cc)
		inner := decorate(conn.AsProvider(name, interval), cfg, metrics, log)
		return provider.Adapt(inner, name, liftedRequest(chunkSize, log), liftedResponse(out))
	}

	conn := client.Native[*body.Chunks](b, cc)
	inner := decorate(conn.AsProvider(name, interval), cfg, metrics, log)
	return provider.Adapt(inner, name, nativeRequest(chunkSize), nativeResponse(out))
}

func decorate[I, O any](p provider.RequestResponse[I, O], cfg *Config, metrics *observability.Metrics, log *logger.Logger) provider.RequestResponse[I, O] {
	mws := []provider.Middleware[I, O]{provider.WithLogging[I, O](log)}
	if metrics != nil {
		mws = append(mws, provider.WithMetrics[I, O](metrics))
	}
	if cfg.Tracing.Enabled {
		mws = append(mws, provider.WithTracing[I, O](cfg.Name))
	}
	return provider.WithResilience(provider.Chain(mws...)(p), cfg.Resilience)
}

func nativeRequest(chunkSize int) func(context.Context, *invocation) (*client.Request[*body.Chunks], error) {
	return func(_ context.Context, inv *invocation) (*client.Request[*body.Chunks], error) {
		chunks, err := readChunks(inv.Body, chunkSize)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		req, err := client.NewRequest(inv.Method, inv.Path, body.Full(chunks...).WithTrailers(inv.Trailers))
		if err != nil {
			return nil, err
		}
		copyHeader(req.Header, inv.Header)
		for name := range inv.Trailers {
			req.Header.Add("Trailer", name)
		}
		return req, nil
	}
}

func nativeResponse(out io.Writer) func(context.Context, *client.Response[*body.Incoming]) (*result, error) {
	return func(ctx context.Context, resp *client.Response[*body.Incoming]) (*result, error) {
		defer resp.Body.Close()

		res := newResult(resp.Proto, resp.Status, resp.Header)
		n, err := copyChunks(ctx, out, resp.Body.Data)
		res.Bytes = n
		if err != nil {
			return nil, err
		}
		if res.Trailers, err = resp.Body.Trailers(ctx); err != nil {
			return nil, err
		}
		return res, nil
	}
}

func liftedRequest(chunkSize int, log *logger.Logger) func(context.Context, *invocation) (*client.Request[*body.ReaderStream], error) {
	return func(_ context.Context, inv *invocation) (*client.Request[*body.ReaderStream], error) {
		if len(inv.Trailers) > 0 {
			log.Warn("request trailers are not sent on the lifted path", logger.Fields("trailers", len(inv.Trailers)))
		}
		src := inv.Body
		if src == nil {
			src = http.NoBody
		}
		req, err := client.NewRequest(inv.Method, inv.Path, body.NewReaderStream(src, chunkSize))
		if err != nil {
			return nil, err
		}
		copyHeader(req.Header, inv.Header)
		return req, nil
	}
}

func liftedResponse(out io.Writer) func(context.Context, *client.LiftedResponse) (*result, error) {
	return func(ctx context.Context, resp *client.LiftedResponse) (*result, error) {
		defer resp.Body.Close()

		res := newResult(resp.Proto, resp.Status, resp.Header)
		n, err := copyChunks(ctx, out, resp.Body.Next)
		res.Bytes = n
		if err != nil {
			return nil, err
		}
		// The lifted body carries no trailers; the transport payload does.
		if res.Trailers, err = resp.Body.IntoInner().Trailers(ctx); err != nil {
			return nil, err
		}
		return res, nil
	}
}

func newResult(proto, status string, header http.Header) *result {
	return &result{Proto: proto, Status: status, Header: header}
}

// copyChunks writes every chunk returned by next to out.
func copyChunks(ctx context.Context, out io.Writer, next func(context.Context) ([]byte, bool, error)) (int64, error) {
	var total int64
	for {
		chunk, ok, err := next(ctx)
		if err != nil {
			return total, fmt.Errorf("reading response body: %w", err)
		}
		if !ok {
			return total, nil
		}
		n, err := out.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("writing response body: %w", err)
		}
	}
}

// readChunks reads r to EOF in pieces of at most size bytes.
func readChunks(r io.Reader, size int) ([][]byte, error) {
	if r == nil {
		return nil, nil
	}
	if size <= 0 {
		size = body.DefaultChunkSize
	}
	var chunks [][]byte
	for {
		buf := make([]byte, size)
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			chunks = append(chunks, buf[:n])
		}
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			return chunks, nil
		default:
			return chunks, err
		}
	}
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		dst[k] = append(dst[k], vv...)
	}
}
