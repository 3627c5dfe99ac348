// Package metrics exposes Prometheus metrics for the vector store.
//
// A *Metrics value owns an isolated registry with a constant service label
// and implements observability.Observer, so it can be passed straight to the
// engine and to stores:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "ingest", Namespace: "yb"})
//	engine, err := ybengine.NewEngine(ctx, cfg, log, ybengine.WithObserver(m))
//	_ = m.RegisterPool("default", engine.Pool().Stat)
//
// Exported series:
//
//	<ns>_operations_total{component,operation,status}
//	<ns>_operation_duration_seconds{component,operation}
//	<ns>_operation_rows_total{component,operation,resource}
//	<ns>_pool_*{pool}
//
// FXModule starts the /metrics HTTP server on Config.Address and stops it on
// shutdown.
package metrics
