package body

import (
	"context"
	"io"
	"net/http"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 16 << 10

// maxEmptyReads is how many (0, nil) reads in a row are tolerated before
// giving up with io.ErrNoProgress, as bufio does.
const maxEmptyReads = 100

// chunkReader turns an io.Reader into a sequence of freshly allocated chunks.
// A read error that arrives together with data is held back until the data
// has been handed out.
type chunkReader struct {
	r          io.Reader
	size       int
	eof        bool
	pendingErr error
}

func newChunkReader(r io.Reader, size int) chunkReader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return chunkReader{r: r, size: size, eof: r == nil}
}

func (c *chunkReader) next(ctx context.Context) ([]byte, bool, error) {
	if c.pendingErr != nil {
		err := c.pendingErr
		c.pendingErr = nil
		return nil, false, err
	}
	if c.eof {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	buf := make([]byte, c.size)
	for empty := 0; ; empty++ {
		if empty == maxEmptyReads {
			return nil, false, io.ErrNoProgress
		}
		if empty > 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}
		n, err := c.r.Read(buf)
		switch {
		case err == io.EOF:
			c.eof = true
			if n > 0 {
				return buf[:n], true, nil
			}
			return nil, false, nil
		case err != nil:
			if n > 0 {
				c.pendingErr = err
				return buf[:n], true, nil
			}
			return nil, false, err
		case n > 0:
			return buf[:n], true, nil
		}
	}
}

// Incoming is the Payload of a response received from the transport. It
// reads the underlying body in chunks and exposes the response trailers once
// the data has been exhausted.
type Incoming struct {
	chunks  chunkReader
	closer  io.Closer
	trailer func() http.Header
}

// NewIncoming returns a Payload reading rc in chunks of at most chunkSize
// bytes. trailer is consulted only after rc reports EOF and may be nil.
func NewIncoming(rc io.ReadCloser, trailer func() http.Header, chunkSize int) *Incoming {
	in := &Incoming{trailer: trailer}
	if rc == nil || rc == http.NoBody {
		in.chunks = newChunkReader(nil, chunkSize)
		if rc != nil {
			in.closer = rc
		}
		return in
	}
	in.chunks = newChunkReader(rc, chunkSize)
	in.closer = rc
	return in
}

// FromResponse returns the body of resp as a Payload. resp.Trailer is read
// lazily because the transport fills it in only after the body hits EOF.
func FromResponse(resp *http.Response, chunkSize int) *Incoming {
	return NewIncoming(resp.Body, func() http.Header { return resp.Trailer }, chunkSize)
}

// Data returns the next chunk read from the response body.
func (in *Incoming) Data(ctx context.Context) ([]byte, bool, error) {
	return in.chunks.next(ctx)
}

// Trailers returns the response trailers once the body has been read to
// EOF. Before that it returns nil.
func (in *Incoming) Trailers(context.Context) (http.Header, error) {
	if !in.chunks.eof || in.trailer == nil {
		return nil, nil
	}
	h := in.trailer()
	if len(h) == 0 {
		return nil, nil
	}
	return h, nil
}

// IsEndStream reports whether the body has been read to EOF.
func (in *Incoming) IsEndStream() bool {
	return in.chunks.eof && in.chunks.pendingErr == nil
}

// Close closes the underlying response body.
func (in *Incoming) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer.Close()
}
