package provider

import (
	"context"
	"time"

	goerrors "github.com/kbukum/h2bridge/errors"
	"github.com/kbukum/h2bridge/observability"
)

// WithMetrics returns a Middleware that records call metrics
// using the observability.Metrics instruments.
// Records: active calls, call count, duration histogram, and errors.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	m.metrics.CallStarted(ctx, m.inner.Name())
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, m.inner.Name(), errorKind(err))
	}
	m.metrics.RecordCall(ctx, m.inner.Name(), status, duration)

	return output, err
}

// errorKind labels err by its AppError code, or "transport" for anything
// the connection itself returned.
func errorKind(err error) string {
	if appErr, ok := goerrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "transport"
}
