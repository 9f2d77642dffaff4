package body

import (
	"context"
	"net/http"
)

// Lifted presents a Payload as a BufStream. Every call passes straight
// through to the wrapped payload; nothing is buffered.
type Lifted[P Payload] struct {
	inner P
}

// Lift wraps p so it can be read as a BufStream.
func Lift[P Payload](p P) *Lifted[P] {
	return &Lifted[P]{inner: p}
}

// IntoInner returns the wrapped payload. The Lifted value should not be used
// afterwards.
func (l *Lifted[P]) IntoInner() P {
	return l.inner
}

// Next returns the wrapped payload's next data chunk.
func (l *Lifted[P]) Next(ctx context.Context) ([]byte, bool, error) {
	return l.inner.Data(ctx)
}

// IsEndStream reports the wrapped payload's end-of-stream hint.
func (l *Lifted[P]) IsEndStream() bool {
	return l.inner.IsEndStream()
}

// Close closes the wrapped payload.
func (l *Lifted[P]) Close() error {
	return l.inner.Close()
}

// LiftedStream presents a BufStream as a Payload.
//
// This direction is lossy: BufStream has no trailer concept, so Trailers
// always reports none, even when the wrapped value could produce them through
// some other method. Callers that need response trailers must stay on the
// Payload side (see Lifted.IntoInner).
type LiftedStream[S BufStream] struct {
	inner S
}

// LiftStream wraps s so it can be sent as a Payload.
func LiftStream[S BufStream](s S) *LiftedStream[S] {
	return &LiftedStream[S]{inner: s}
}

// Inner returns the wrapped stream.
func (l *LiftedStream[S]) Inner() S {
	return l.inner
}

// Data returns the wrapped stream's next buffer.
func (l *LiftedStream[S]) Data(ctx context.Context) ([]byte, bool, error) {
	return l.inner.Next(ctx)
}

// Trailers always returns no trailers.
func (l *LiftedStream[S]) Trailers(context.Context) (http.Header, error) {
	return nil, nil
}

// IsEndStream reports the wrapped stream's completion signal.
func (l *LiftedStream[S]) IsEndStream() bool {
	return l.inner.IsEndStream()
}

// Close closes the wrapped stream.
func (l *LiftedStream[S]) Close() error {
	return l.inner.Close()
}
