// Package body bridges the two body models used on either side of the
// HTTP/2 client connection.
//
//   - Payload is push style: data chunks, then optional trailers once the data
//     is exhausted, plus a non-blocking end-of-stream hint. This is what the
//     transport sends and receives.
//   - BufStream is pull style: buffers until exhausted, no trailers. This is
//     what the service middleware stack hands around. A BufStream also
//     satisfies provider.Iterator[[]byte].
//
// Lift presents a Payload as a BufStream without loss. LiftStream presents a
// BufStream as a Payload; that direction cannot carry trailers and always
// reports none.
//
//	stream := body.Lift(body.Full([]byte("ab"), []byte("cd")))
//	buf, ok, err := stream.Next(ctx)
//
// The remaining types are concrete bodies used at the transport boundary:
// Full and Empty for in-memory payloads, Incoming for a received response,
// ReaderStream for an io.Reader source, and NewReader to hand a Payload to
// net/http.
package body
