package provider

import (
	"context"

	"github.com/kbukum/h2bridge/observability"
)

// WithTracing returns a Middleware that wraps each call in an
// observability.SpanCall span. Attributes of Described inputs and outputs
// are copied onto the span.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanCall)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrOperationName, t.inner.Name())
	setSpanAttributes(ctx, attributesOf(input))

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return output, err
	}
	setSpanAttributes(ctx, attributesOf(output))
	return output, nil
}

func setSpanAttributes(ctx context.Context, attrs map[string]any) {
	for k, v := range attrs {
		observability.SetSpanAttribute(ctx, k, v)
	}
}
