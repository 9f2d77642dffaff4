package client

import (
	"context"

	"github.com/kbukum/h2bridge/body"
)

// Service is the two-phase contract: PollReady must report true before each
// Call. F is the concrete future type so the native path stays free of
// interface boxing.
type Service[Req, Resp any, F Future[Resp]] interface {
	// PollReady reports, without blocking, whether a request can be
	// submitted. A non-nil error means the service is permanently unusable.
	PollReady() (bool, error)
	// Call submits req. It never blocks; the response arrives through F.
	Call(ctx context.Context, req Req) F
}

// Sender is an open transport connection that accepts requests whose body is
// of type B. It is what a connection wraps.
type Sender[B body.Payload] interface {
	// PollReady reports whether the transport can take a new request. Repeated
	// calls with no intervening SendRequest must give the same answer.
	PollReady() (bool, error)
	// SendRequest writes req to the connection.
	SendRequest(ctx context.Context, req *Request[B]) *ResponseFuture
}

// availability is implemented by senders that can report readiness without
// reserving capacity.
type availability interface {
	CanTakeNewRequest() bool
}
