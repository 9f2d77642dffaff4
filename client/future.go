package client

import (
	"context"

	"github.com/kbukum/h2bridge/body"
)

// Future is a pending result.
type Future[T any] interface {
	// Await blocks until the result is available or ctx is done.
	Await(ctx context.Context) (T, error)
}

// ResponseFuture is the transport's own future for one response. It is
// resolved exactly once by the sender.
type ResponseFuture struct {
	done chan struct{}
	resp *Response[*body.Incoming]
	err  error
}

// NewResponseFuture returns an unresolved future.
func NewResponseFuture() *ResponseFuture {
	return &ResponseFuture{done: make(chan struct{})}
}

// Resolve completes the future. It must be called exactly once.
func (f *ResponseFuture) Resolve(resp *Response[*body.Incoming], err error) {
	f.resp, f.err = resp, err
	close(f.done)
}

// Done is closed once the future is resolved.
func (f *ResponseFuture) Done() <-chan struct{} {
	return f.done
}

// Poll returns the result without blocking. ok is false while the response
// is still pending.
func (f *ResponseFuture) Poll() (resp *Response[*body.Incoming], ok bool, err error) {
	select {
	case <-f.done:
		return f.resp, true, f.err
	default:
		return nil, false, nil
	}
}

// Await waits for the response. A done ctx stops the wait but not the round
// trip; cancel the context passed to Call for that.
func (f *ResponseFuture) Await(ctx context.Context) (*Response[*body.Incoming], error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a future yielding fn applied to the result of inner. Errors
// from inner pass through unchanged and fn is not called.
func Then[T, U any](inner Future[T], fn func(T) U) Future[U] {
	return &thenFuture[T, U]{inner: inner, fn: fn}
}

type thenFuture[T, U any] struct {
	inner Future[T]
	fn    func(T) U
}

func (t *thenFuture[T, U]) Await(ctx context.Context) (U, error) {
	v, err := t.inner.Await(ctx)
	if err != nil {
		var zero U
		return zero, err
	}
	return t.fn(v), nil
}
