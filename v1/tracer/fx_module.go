package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Tracer and flushes it when the application stops.
//
// Dependencies required by this module:
//   - tracer.Config
//   - tracer.Logger
var FXModule = fx.Module("tracer",
	fx.Provide(
		func(cfg Config, logger Logger) (*Tracer, error) {
			return NewClient(cfg, logger)
		},
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the tracer provider down on application stop
// so buffered spans reach the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer == nil || tracer.tracer == nil {
				return nil
			}
			tracer.logger.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
