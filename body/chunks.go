package body

import (
	"context"
	"net/http"
)

// Chunks is an in-memory Payload that yields a fixed sequence of chunks and,
// optionally, trailers.
type Chunks struct {
	chunks   [][]byte
	trailers http.Header
}

// Full returns a Payload yielding the given chunks in order. Zero-length
// chunks are skipped so that IsEndStream is exact.
func Full(chunks ...[]byte) *Chunks {
	c := &Chunks{chunks: make([][]byte, 0, len(chunks))}
	for _, chunk := range chunks {
		if len(chunk) > 0 {
			c.chunks = append(c.chunks, chunk)
		}
	}
	return c
}

// Empty returns a Payload that is already at end of stream.
func Empty() *Chunks {
	return &Chunks{}
}

// WithTrailers sets the trailers reported once the data is exhausted.
func (c *Chunks) WithTrailers(h http.Header) *Chunks {
	c.trailers = h
	return c
}

// Data returns the next chunk.
func (c *Chunks) Data(context.Context) ([]byte, bool, error) {
	if len(c.chunks) == 0 {
		return nil, false, nil
	}
	chunk := c.chunks[0]
	c.chunks = c.chunks[1:]
	return chunk, true, nil
}

// Trailers returns the configured trailers once every chunk has been read.
func (c *Chunks) Trailers(context.Context) (http.Header, error) {
	if len(c.chunks) > 0 {
		return nil, nil
	}
	return c.trailers, nil
}

// IsEndStream reports whether all chunks have been read.
func (c *Chunks) IsEndStream() bool {
	return len(c.chunks) == 0
}

// Close drops any unread chunks.
func (c *Chunks) Close() error {
	c.chunks = nil
	return nil
}
