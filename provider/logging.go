package provider

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/h2bridge/logger"
)

// WithLogging returns a Middleware that logs each call with the provider
// name, a fresh call id and the duration. Attributes of Described inputs
// and outputs are added to the entry. Failures log at error level,
// successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := make(map[string]any, 8)
	for k, v := range attributesOf(input) {
		fields[k] = v
	}
	fields[logger.FieldProvider] = l.inner.Name()
	fields[logger.FieldCallID] = uuid.NewString()
	fields[logger.FieldDuration] = time.Since(start).Milliseconds()

	log := l.log.WithContext(ctx)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		log.Error("call failed", fields)
		return output, err
	}
	for k, v := range attributesOf(output) {
		fields[k] = v
	}
	log.Debug("call ok", fields)
	return output, nil
}
