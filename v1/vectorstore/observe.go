package vectorstore

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yugabyte/yb-vectorstore/v1/observability"
)

const component = "vectorstore"

// instrument runs fn on the engine's worker, inside a span, and reports the
// outcome to the observer. fn returns the number of rows or documents it
// handled.
func (s *Store) instrument(ctx context.Context, operation string, fn func(ctx context.Context) (int64, error)) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, operation)
	defer span.End()

	var size int64
	err := s.engine.RunSync(ctx, func(ctx context.Context) error {
		var err error
		size, err = fn(ctx)
		return err
	})

	if s.tracer != nil {
		s.tracer.SetAttributes(span, map[string]interface{}{
			"db.table": s.schema.TableName,
			"rows":     size,
		})
		if err != nil {
			s.tracer.RecordErrorOnSpan(span, err)
		}
	}

	if s.observer != nil {
		s.observer.ObserveOperation(observability.OperationContext{
			Component:   component,
			Operation:   operation,
			Resource:    s.schema.TableName,
			SubResource: s.schema.SchemaName,
			Duration:    time.Since(start),
			Error:       err,
			Size:        size,
		})
	}

	fields := map[string]interface{}{
		"operation": operation,
		"table":     s.schema.TableName,
		"rows":      size,
		"duration":  time.Since(start).String(),
	}
	if err != nil {
		s.logger.Warn("vector store operation failed", err, fields)
	} else {
		s.logger.Debug("vector store operation completed", nil, fields)
	}
	return err
}

func (s *Store) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, noop.Span{}
	}
	return s.tracer.StartSpan(ctx, component+"."+operation)
}
