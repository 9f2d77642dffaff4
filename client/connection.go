package client

import (
	"context"

	"github.com/kbukum/h2bridge/body"
)

// Connection is the native path: request and response bodies are the
// transport's own types.
type Connection[B body.Payload] struct {
	sender Sender[B]
}

var _ Service[*Request[*body.Chunks], *Response[*body.Incoming], *ResponseFuture] = (*Connection[*body.Chunks])(nil)

// NewConnection wraps sender.
func NewConnection[B body.Payload](sender Sender[B]) *Connection[B] {
	return &Connection[B]{sender: sender}
}

// PollReady delegates to the sender.
func (c *Connection[B]) PollReady() (bool, error) {
	return c.sender.PollReady()
}

// Call forwards req to the sender and returns its future unchanged.
func (c *Connection[B]) Call(ctx context.Context, req *Request[B]) *ResponseFuture {
	return c.sender.SendRequest(ctx, req)
}

// Available reports whether the sender could take a request, without
// reserving capacity. Senders that cannot tell are assumed available.
func (c *Connection[B]) Available() bool {
	return senderAvailable(c.sender)
}

// LiftedResponse is a response whose body has been lifted to a BufStream.
// IntoInner on the body recovers the transport payload, trailers included.
type LiftedResponse = Response[*body.Lifted[*body.Incoming]]

// LiftedConnection is the lifted path: callers send BufStream bodies and
// receive BufStream bodies.
type LiftedConnection[S body.BufStream] struct {
	sender Sender[*body.LiftedStream[S]]
}

var _ Service[*Request[*body.ReaderStream], *LiftedResponse, Future[*LiftedResponse]] = (*LiftedConnection[*body.ReaderStream])(nil)

// NewLiftedConnection wraps sender.
func NewLiftedConnection[S body.BufStream](sender Sender[*body.LiftedStream[S]]) *LiftedConnection[S] {
	return &LiftedConnection[S]{sender: sender}
}

// PollReady delegates to the sender.
func (c *LiftedConnection[S]) PollReady() (bool, error) {
	return c.sender.PollReady()
}

// Call lifts the request body to a Payload, submits it, and lifts the
// response body back to a BufStream.
func (c *LiftedConnection[S]) Call(ctx context.Context, req *Request[S]) Future[*LiftedResponse] {
	fut := c.sender.SendRequest(ctx, MapRequest(req, body.LiftStream[S]))
	return Then[*Response[*body.Incoming]](fut, liftResponse)
}

// Available reports whether the sender could take a request, without
// reserving capacity.
func (c *LiftedConnection[S]) Available() bool {
	return senderAvailable(c.sender)
}

func liftResponse(resp *Response[*body.Incoming]) *LiftedResponse {
	return MapResponse(resp, body.Lift[*body.Incoming])
}

func senderAvailable(sender any) bool {
	if a, ok := sender.(availability); ok {
		return a.CanTakeNewRequest()
	}
	return true
}
