// Package resilience provides the circuit breaker and rate limiter that
// provider.WithResilience places in front of a connection.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("upstream"))
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 100, Burst: 20})
//
//	if err := rl.Wait(ctx); err != nil {
//	    return err
//	}
//	err := cb.Execute(func() error { return send(ctx) })
//
// There is deliberately no retry policy: a request body is a stream that can
// only be read once, so replaying it is the caller's decision.
package resilience
