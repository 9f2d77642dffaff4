package main

import (
	"context"
	"fmt"

	"github.com/kbukum/h2bridge/bootstrap"
	"github.com/kbukum/h2bridge/observability"
)

// setupTelemetry installs the configured OTLP exporters and registers their
// shutdown with app. It returns nil metrics when metric export is off.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Config]) (*observability.Metrics, error) {
	cfg := app.Cfg

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		app.OnStop(tp.Shutdown)
	}

	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	mp, err := observability.InitMeter(ctx, cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.OnStop(mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return metrics, nil
}
