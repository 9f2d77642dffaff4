// Package client presents a single, already-negotiated HTTP/2 client
// connection as a two-phase service: a non-blocking readiness check
// (PollReady) followed by a call that submits one request and returns a
// future of the response.
//
// Two variants exist and the caller picks one explicitly when building:
//
//   - Connection[B] is the native path. Requests carry a body.Payload, the
//     request goes to the sender unchanged, and the sender's own
//     *ResponseFuture comes back unchanged.
//   - LiftedConnection[S] is the lifted path. Requests carry a body.BufStream
//     which is lifted to a Payload before sending, and the response body is
//     lifted back to a BufStream. The resulting future has no nameable
//     concrete type, so it is returned as a Future interface.
//
// # Usage
//
//	b, err := client.NewBuilder(client.Config{Address: "localhost:8080"})
//	cc, err := b.Open(ctx)
//	conn := client.Native[*body.Chunks](b, cc)
//
//	if ready, err := conn.PollReady(); err == nil && ready {
//	    resp, err := conn.Call(ctx, req).Await(ctx)
//	}
//
// A connection does no locking and expects one logical caller that polls,
// calls and awaits in turn. AsProvider wraps a connection as a
// provider.RequestResponse that enforces this for concurrent callers, so the
// connection can sit under provider.Chain middleware.
package client
