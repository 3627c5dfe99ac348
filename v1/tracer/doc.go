// Package tracer configures OpenTelemetry tracing.
//
// NewClient registers a global TracerProvider. The vectorstore and ybengine
// packages create their spans through otel.Tracer, so once a Tracer exists
// every store operation ("vectorstore.AddTexts", "vectorstore.Delete", ...)
// shows up as a span with the table name attached.
//
// Without EnableExport spans stay in-process, which is what tests rely on.
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "ingest"}, log)
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(ctx)
//
//	ctx, span := t.StartSpan(ctx, "reindex")
//	defer span.End()
package tracer
