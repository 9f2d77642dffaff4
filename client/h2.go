package client

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/net/http2"

	"github.com/kbukum/h2bridge/body"
)

// H2Sender is a Sender over one x/net/http2 client connection.
type H2Sender[B body.Payload] struct {
	cc        *http2.ClientConn
	scheme    string
	authority string
	chunkSize int
}

// NewH2Sender wraps cc. scheme and authority fill in requests whose URL
// omits them.
func NewH2Sender[B body.Payload](cc *http2.ClientConn, cfg Config) *H2Sender[B] {
	cfg.ApplyDefaults()
	return &H2Sender[B]{
		cc:        cc,
		scheme:    cfg.Scheme,
		authority: cfg.Authority,
		chunkSize: cfg.ChunkSize,
	}
}

// PollReady reports whether the connection can open another stream. It
// reports false while the peer's concurrent stream limit is reached, and
// ErrConnectionClosed once the connection is closed or shutting down.
//
// No stream is reserved here. A reservation that RoundTrip never consumes,
// for example one followed by a call whose context is already done, is never
// released by the connection.
func (s *H2Sender[B]) PollReady() (bool, error) {
	if st := s.cc.State(); st.Closed || st.Closing {
		return false, ErrConnectionClosed
	}
	if s.cc.CanTakeNewRequest() {
		return true, nil
	}
	// The connection may have become unusable after the State check.
	if st := s.cc.State(); st.Closed || st.Closing {
		return false, ErrConnectionClosed
	}
	return false, nil
}

// CanTakeNewRequest reports whether a request could be sent now.
func (s *H2Sender[B]) CanTakeNewRequest() bool {
	return s.cc.CanTakeNewRequest()
}

// SendRequest starts the round trip on its own goroutine and returns at once.
func (s *H2Sender[B]) SendRequest(ctx context.Context, req *Request[B]) *ResponseFuture {
	fut := NewResponseFuture()
	hreq := s.httpRequest(ctx, req)

	go func() {
		resp, err := s.cc.RoundTrip(hreq)
		if err != nil {
			fut.Resolve(nil, err)
			return
		}
		fut.Resolve(&Response[*body.Incoming]{
			Status:        resp.Status,
			StatusCode:    resp.StatusCode,
			Proto:         resp.Proto,
			Header:        resp.Header,
			ContentLength: resp.ContentLength,
			Body:          body.FromResponse(resp, s.chunkSize),
		}, nil)
	}()

	return fut
}

// State returns the underlying connection state.
func (s *H2Sender[B]) State() http2.ClientConnState {
	return s.cc.State()
}

// Close closes the connection immediately.
func (s *H2Sender[B]) Close() error {
	return s.cc.Close()
}

// Shutdown waits for in-flight requests before closing.
func (s *H2Sender[B]) Shutdown(ctx context.Context) error {
	return s.cc.Shutdown(ctx)
}

// httpRequest builds the *http.Request by hand, so SendRequest has no error
// path outside the future.
func (s *H2Sender[B]) httpRequest(ctx context.Context, req *Request[B]) *http.Request {
	u := *req.URL
	if u.Scheme == "" {
		u.Scheme = s.scheme
	}
	if u.Host == "" {
		u.Host = s.authority
	}
	if u.Path == "" {
		u.Path = "/"
	}
	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	hreq := &http.Request{
		Method:     req.Method,
		URL:        &u,
		Proto:      "HTTP/2.0",
		ProtoMajor: 2,
		Header:     header,
		Host:       u.Host,
	}
	if req.Body.IsEndStream() && !hasTrailers(ctx, req.Body) {
		_ = req.Body.Close()
		hreq.Body = http.NoBody
		hreq.ContentLength = 0
	} else {
		hreq.Trailer = declaredTrailers(header)
		hreq.Body = body.NewReader(ctx, req.Body, hreq.Trailer)
		hreq.ContentLength = -1
	}
	return hreq.WithContext(ctx)
}

// declaredTrailers moves the names listed in the Trailer header into a
// trailer map, which the transport announces in the request head. Some
// servers, net/http among them, discard trailers that were not announced.
func declaredTrailers(header http.Header) http.Header {
	trailer := make(http.Header)
	for _, v := range header.Values("Trailer") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				trailer[http.CanonicalHeaderKey(name)] = nil
			}
		}
	}
	header.Del("Trailer")
	return trailer
}

// hasTrailers reports whether a finished payload still has trailers to send.
// Errors are left for the body reader to surface.
func hasTrailers(ctx context.Context, p body.Payload) bool {
	h, err := p.Trailers(ctx)
	return err != nil || len(h) > 0
}
