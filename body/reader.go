package body

import (
	"context"
	"io"
	"net/http"
)

// ReaderStream is a BufStream over an io.Reader. It closes the reader on
// Close when the reader is an io.Closer.
type ReaderStream struct {
	chunks chunkReader
	src    io.Reader
}

// NewReaderStream returns a BufStream yielding r in chunks of at most
// chunkSize bytes.
func NewReaderStream(r io.Reader, chunkSize int) *ReaderStream {
	return &ReaderStream{chunks: newChunkReader(r, chunkSize), src: r}
}

// Next returns the next chunk read from the source.
func (s *ReaderStream) Next(ctx context.Context) ([]byte, bool, error) {
	return s.chunks.next(ctx)
}

// IsEndStream reports whether the source has reported EOF.
func (s *ReaderStream) IsEndStream() bool {
	return s.chunks.eof && s.chunks.pendingErr == nil
}

// Close closes the source if it is closable.
func (s *ReaderStream) Close() error {
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// payloadReader exposes a Payload as an io.ReadCloser.
type payloadReader struct {
	ctx     context.Context
	p       Payload
	trailer http.Header
	pending []byte
	done    bool
}

// NewReader returns an io.ReadCloser reading p, for handing request bodies
// to net/http. When trailer is non-nil, the payload's trailers are copied
// into it when the data ends, which is when the HTTP/2 transport encodes
// request trailers.
func NewReader(ctx context.Context, p Payload, trailer http.Header) io.ReadCloser {
	return &payloadReader{ctx: ctx, p: p, trailer: trailer}
}

func (r *payloadReader) Read(b []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		chunk, ok, err := r.p.Data(r.ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			r.done = true
			if err := r.copyTrailers(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		r.pending = chunk
	}
	n := copy(b, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *payloadReader) copyTrailers() error {
	if r.trailer == nil {
		return nil
	}
	h, err := r.p.Trailers(r.ctx)
	if err != nil {
		return err
	}
	for k, vv := range h {
		r.trailer[k] = vv
	}
	return nil
}

func (r *payloadReader) Close() error {
	return r.p.Close()
}

// Collect drains p and returns its chunks followed by its trailers.
func Collect(ctx context.Context, p Payload) ([][]byte, http.Header, error) {
	var chunks [][]byte
	for {
		chunk, ok, err := p.Data(ctx)
		if err != nil {
			return chunks, nil, err
		}
		if !ok {
			break
		}
		chunks = append(chunks, chunk)
	}
	trailers, err := p.Trailers(ctx)
	return chunks, trailers, err
}

// CollectStream drains s and returns its buffers.
func CollectStream(ctx context.Context, s BufStream) ([][]byte, error) {
	var bufs [][]byte
	for {
		buf, ok, err := s.Next(ctx)
		if err != nil {
			return bufs, err
		}
		if !ok {
			return bufs, nil
		}
		bufs = append(bufs, buf)
	}
}
