package body

import (
	"context"
	"net/http"
)

// Payload is a push-style HTTP body.
type Payload interface {
	// Data returns the next data chunk. Returns (nil, false, nil) once the
	// data is exhausted.
	Data(ctx context.Context) ([]byte, bool, error)
	// Trailers returns the trailing headers after the data has ended, or nil
	// when there are none.
	Trailers(ctx context.Context) (http.Header, error)
	// IsEndStream reports, without blocking, whether the body is known to be
	// finished.
	IsEndStream() bool
	// Close releases the body.
	Close() error
}

// BufStream is a pull-style stream of buffers with no trailer concept.
type BufStream interface {
	// Next returns the next buffer. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) ([]byte, bool, error)
	// IsEndStream reports whether the next call to Next would yield no data.
	IsEndStream() bool
	// Close releases the stream.
	Close() error
}
