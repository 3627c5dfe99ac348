package ybengine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/yugabyte/yb-vectorstore/v1/observability"
)

// FXModule provides the shared *Engine and ties its health monitor and
// shutdown to the application lifecycle.
//
// Dependencies required by this module:
//   - ybengine.Config
//   - ybengine.Logger
//   - observability.Observer (optional)
var FXModule = fx.Module("ybengine",
	fx.Provide(
		NewEngineWithDI,
	),
	fx.Invoke(RegisterEngineLifecycle),
)

const connectTimeout = 30 * time.Second

// EngineParams groups the dependencies for NewEngineWithDI.
type EngineParams struct {
	fx.In

	Config   Config
	Logger   Logger
	Observer observability.Observer `optional:"true"`
}

// NewEngineWithDI builds the engine from injected dependencies.
func NewEngineWithDI(params EngineParams) (*Engine, error) {
	var opts []Option
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return NewEngine(ctx, params.Config, params.Logger, opts...)
}

// EngineLifeCycleParams groups the dependencies for RegisterEngineLifecycle.
type EngineLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Engine    *Engine
}

// RegisterEngineLifecycle starts MonitorConnection when the application
// starts, and on stop cancels it, waits for it and closes the engine.
func RegisterEngineLifecycle(params EngineLifeCycleParams) {
	wg := &sync.WaitGroup{}
	monitorCtx, cancel := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Engine.MonitorConnection(monitorCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			wg.Wait()
			return params.Engine.Close()
		},
	})
}
