// Package provider defines the small generic contracts the bridge is
// exposed through, and the middleware that wraps them.
//
// The package defines two interaction patterns:
//   - RequestResponse[I, O]: one input → one output (a bridged HTTP/2 call)
//   - Stream[I, O]: one input → many outputs (a response body read chunk by chunk)
//
// # Middleware
//
// Middleware[I, O] is a function that wraps a RequestResponse provider.
// Use Chain to compose multiple middlewares:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("h2bridge"),
//	)(rawProvider)
//
// WithResilience adds a rate limiter and a circuit breaker in front of a
// provider; Adapt maps a provider onto different input and output types.
package provider
