package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/kbukum/h2bridge/body"
)

// ScriptedStream is a body.BufStream yielding fixed buffers, optionally
// followed by an error. IsEndStream is exact: it is true only when the next
// Next would return (nil, false, nil).
type ScriptedStream struct {
	mu     sync.Mutex
	bufs   [][]byte
	err    error
	nexts  int
	closed bool
}

var _ body.BufStream = (*ScriptedStream)(nil)

// NewScriptedStream returns a stream yielding bufs in order. Empty strings
// are skipped.
func NewScriptedStream(bufs ...string) *ScriptedStream {
	s := &ScriptedStream{}
	for _, b := range bufs {
		if b != "" {
			s.bufs = append(s.bufs, []byte(b))
		}
	}
	return s
}

// FailWith makes the stream return err once its buffers are exhausted.
func (s *ScriptedStream) FailWith(err error) *ScriptedStream {
	s.err = err
	return s
}

func (s *ScriptedStream) Next(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nexts++
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if len(s.bufs) > 0 {
		b := s.bufs[0]
		s.bufs = s.bufs[1:]
		return b, true, nil
	}
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, false, err
	}
	return nil, false, nil
}

func (s *ScriptedStream) IsEndStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bufs) == 0 && s.err == nil
}

func (s *ScriptedStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Nexts returns how many times Next was called.
func (s *ScriptedStream) Nexts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nexts
}

// Closed reports whether Close was called.
func (s *ScriptedStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// RecordingPayload wraps a body.Payload and records what was read from it.
type RecordingPayload struct {
	inner body.Payload

	mu           sync.Mutex
	chunks       [][]byte
	trailerCalls int
	closed       bool
}

var _ body.Payload = (*RecordingPayload)(nil)

// Record wraps p.
func Record(p body.Payload) *RecordingPayload {
	return &RecordingPayload{inner: p}
}

func (r *RecordingPayload) Data(ctx context.Context) ([]byte, bool, error) {
	chunk, ok, err := r.inner.Data(ctx)
	if ok {
		r.mu.Lock()
		r.chunks = append(r.chunks, chunk)
		r.mu.Unlock()
	}
	return chunk, ok, err
}

func (r *RecordingPayload) Trailers(ctx context.Context) (http.Header, error) {
	r.mu.Lock()
	r.trailerCalls++
	r.mu.Unlock()
	return r.inner.Trailers(ctx)
}

func (r *RecordingPayload) IsEndStream() bool {
	return r.inner.IsEndStream()
}

func (r *RecordingPayload) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.inner.Close()
}

// Chunks returns the chunks read so far.
func (r *RecordingPayload) Chunks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ChunkStrings(r.chunks)
}

// TrailerCalls returns how many times Trailers was called.
func (r *RecordingPayload) TrailerCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trailerCalls
}

// Closed reports whether Close was called.
func (r *RecordingPayload) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
