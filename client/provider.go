package client

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/h2bridge/body"
	"github.com/kbukum/h2bridge/provider"
)

// Poller is the readiness half of Service.
type Poller interface {
	PollReady() (bool, error)
}

// WaitReady polls p until it is ready, fails, or ctx is done, sleeping
// interval between polls.
func WaitReady(ctx context.Context, p Poller, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultReadyPollInterval
	}
	for {
		ready, err := p.PollReady()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// AsProvider exposes the connection as a provider.RequestResponse so it can
// be wrapped by provider middleware. Execute waits for readiness, calls, and
// awaits the response while holding a lock, so concurrent callers are
// serialized onto the single logical caller the connection expects.
func (c *Connection[B]) AsProvider(name string, interval time.Duration) provider.RequestResponse[*Request[B], *Response[*body.Incoming]] {
	return newServiceProvider[*Request[B], *Response[*body.Incoming], *ResponseFuture](name, c, interval)
}

// AsProvider exposes the lifted connection as a provider.RequestResponse.
// See Connection.AsProvider.
func (c *LiftedConnection[S]) AsProvider(name string, interval time.Duration) provider.RequestResponse[*Request[S], *LiftedResponse] {
	return newServiceProvider[*Request[S], *LiftedResponse, Future[*LiftedResponse]](name, c, interval)
}

type serviceProvider[Req, Resp any, F Future[Resp]] struct {
	name     string
	svc      Service[Req, Resp, F]
	interval time.Duration
	mu       sync.Mutex
}

func newServiceProvider[Req, Resp any, F Future[Resp]](name string, svc Service[Req, Resp, F], interval time.Duration) *serviceProvider[Req, Resp, F] {
	return &serviceProvider[Req, Resp, F]{name: name, svc: svc, interval: interval}
}

func (p *serviceProvider[Req, Resp, F]) Name() string { return p.name }

func (p *serviceProvider[Req, Resp, F]) IsAvailable(_ context.Context) bool {
	if a, ok := any(p.svc).(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

func (p *serviceProvider[Req, Resp, F]) Execute(ctx context.Context, req Req) (Resp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := WaitReady(ctx, p.svc, p.interval); err != nil {
		var zero Resp
		return zero, err
	}
	return p.svc.Call(ctx, req).Await(ctx)
}

// AsStream exposes the lifted connection as a provider.Stream of response
// body chunks. The response head is discarded; use AsProvider when status
// or headers matter.
func (c *LiftedConnection[S]) AsStream(name string, interval time.Duration) provider.Stream[*Request[S], []byte] {
	return &bodyStream[S]{rr: c.AsProvider(name, interval)}
}

type bodyStream[S body.BufStream] struct {
	rr provider.RequestResponse[*Request[S], *LiftedResponse]
}

func (s *bodyStream[S]) Name() string                         { return s.rr.Name() }
func (s *bodyStream[S]) IsAvailable(ctx context.Context) bool { return s.rr.IsAvailable(ctx) }

func (s *bodyStream[S]) Execute(ctx context.Context, req *Request[S]) (provider.Iterator[[]byte], error) {
	resp, err := s.rr.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
