package provider

import "context"

// Provider is anything a call can be routed to.
type Provider interface {
	// Name identifies the provider in logs, spans and metrics.
	Name() string
	// IsAvailable reports whether a call made now would be accepted.
	// For a connection this is its readiness.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse takes one input and returns one output, such as a
// request and its response head.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Stream takes one input and yields many outputs, such as the chunks of a
// response body.
type Stream[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (Iterator[O], error)
}

// Middleware wraps a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares. The first one is outermost, so
// Chain(a, b, c)(p) is a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Described is implemented by inputs and outputs that expose a few
// attributes (method, path, status) for logs and spans.
type Described interface {
	Attributes() map[string]any
}

// attributesOf returns v's attributes, or nil when v does not describe
// itself.
func attributesOf(v any) map[string]any {
	if d, ok := v.(Described); ok {
		return d.Attributes()
	}
	return nil
}
