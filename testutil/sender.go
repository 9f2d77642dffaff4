package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/kbukum/h2bridge/body"
	"github.com/kbukum/h2bridge/client"
)

var (
	// ErrNotReady resolves a request sent without a successful PollReady.
	ErrNotReady = errors.New("testutil: request sent while not ready")
	// ErrNoResponse resolves a request for which no response was scripted.
	ErrNoResponse = errors.New("testutil: no scripted response left")
)

// ScriptedResponse is one canned reply of a ScriptedSender.
type ScriptedResponse struct {
	StatusCode int
	Header     http.Header
	Chunks     []string
	Trailers   http.Header
	// Err, if set, resolves the future with this error instead.
	Err error
}

// RecordedRequest is what a ScriptedSender saw for one request, with the
// body fully drained.
type RecordedRequest struct {
	Method   string
	URL      string
	Header   http.Header
	Chunks   []string
	Trailers http.Header
	// BodyErr is the error the body returned while being drained.
	BodyErr error
}

// ScriptedSender is a client.Sender that answers from a fixed script. It
// starts ready; SetReady and Fail change what PollReady reports.
type ScriptedSender[B body.Payload] struct {
	mu        sync.Mutex
	ready     bool
	reserved  bool
	fatal     error
	polls     int
	responses []ScriptedResponse
	requests  []RecordedRequest
	wg        sync.WaitGroup
}

var _ client.Sender[*body.Chunks] = (*ScriptedSender[*body.Chunks])(nil)

// NewScriptedSender returns a ready sender that replies with responses in
// order.
func NewScriptedSender[B body.Payload](responses ...ScriptedResponse) *ScriptedSender[B] {
	return &ScriptedSender[B]{ready: true, responses: responses}
}

// SetReady controls what PollReady reports.
func (s *ScriptedSender[B]) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Fail makes every later PollReady return err.
func (s *ScriptedSender[B]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fatal = err
}

// PollReady reports the scripted readiness. A true result is remembered
// until the next SendRequest.
func (s *ScriptedSender[B]) PollReady() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls++
	if s.fatal != nil {
		return false, s.fatal
	}
	if s.ready {
		s.reserved = true
	}
	return s.reserved, nil
}

// CanTakeNewRequest reports readiness without reserving.
func (s *ScriptedSender[B]) CanTakeNewRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal == nil && (s.ready || s.reserved)
}

// SendRequest drains req's body on a goroutine, records it, and resolves
// the future with the next scripted response.
func (s *ScriptedSender[B]) SendRequest(ctx context.Context, req *client.Request[B]) *client.ResponseFuture {
	fut := client.NewResponseFuture()

	s.mu.Lock()
	reserved := s.reserved
	s.reserved = false
	var next *ScriptedResponse
	if reserved && len(s.responses) > 0 {
		next = &s.responses[0]
		s.responses = s.responses[1:]
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		rec := RecordedRequest{Method: req.Method, Header: req.Header}
		if req.URL != nil {
			rec.URL = req.URL.String()
		}
		chunks, trailers, err := body.Collect(ctx, req.Body)
		_ = req.Body.Close()
		rec.Chunks = ChunkStrings(chunks)
		rec.Trailers = trailers
		rec.BodyErr = err

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		switch {
		case !reserved:
			fut.Resolve(nil, ErrNotReady)
		case next == nil:
			fut.Resolve(nil, ErrNoResponse)
		case next.Err != nil:
			fut.Resolve(nil, next.Err)
		default:
			fut.Resolve(next.response(), nil)
		}
	}()
	return fut
}

// Requests waits for in-flight requests and returns everything recorded.
func (s *ScriptedSender[B]) Requests() []RecordedRequest {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Polls returns how many times PollReady was called.
func (s *ScriptedSender[B]) Polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

func (r *ScriptedResponse) response() *client.Response[*body.Incoming] {
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	header := r.Header
	if header == nil {
		header = make(http.Header)
	}
	trailers := r.Trailers
	return &client.Response[*body.Incoming]{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/2.0",
		Header:        header,
		ContentLength: -1,
		Body:          body.NewIncoming(NewChunkedBody(r.Chunks...), func() http.Header { return trailers }, 0),
	}
}

// ChunkedBody is an io.ReadCloser that returns one chunk per Read, so a
// chunked reader sees the same boundaries that were scripted.
type ChunkedBody struct {
	chunks [][]byte
	closed bool
}

// NewChunkedBody returns a body yielding chunks in order.
func NewChunkedBody(chunks ...string) *ChunkedBody {
	b := &ChunkedBody{}
	for _, c := range chunks {
		b.chunks = append(b.chunks, []byte(c))
	}
	return b
}

func (b *ChunkedBody) Read(p []byte) (int, error) {
	for len(b.chunks) > 0 && len(b.chunks[0]) == 0 {
		b.chunks = b.chunks[1:]
	}
	if len(b.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	b.chunks[0] = b.chunks[0][n:]
	if len(b.chunks[0]) == 0 {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

// Close marks the body closed.
func (b *ChunkedBody) Close() error {
	b.closed = true
	return nil
}

// Closed reports whether Close was called.
func (b *ChunkedBody) Closed() bool {
	return b.closed
}

// ChunkStrings converts chunks to strings.
func ChunkStrings(chunks [][]byte) []string {
	if chunks == nil {
		return nil
	}
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = string(c)
	}
	return out
}
