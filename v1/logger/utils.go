package logger

import "go.uber.org/zap"

// convertToZapFields turns the error and the field maps into zap fields.
// When several maps carry the same key, the later one is appended last and wins
// in most sinks.
func (l *Logger) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	return zapFields
}

// Info logs an informational message, along with an optional error and structured fields.
//
// Example:
//
//	logger.Info("rows inserted", nil, map[string]interface{}{
//	    "table": "documents",
//	    "rows":  128,
//	})
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// Warn logs a warning message, for conditions that are not failures yet.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// Error logs an error message with the error and additional context fields.
//
// Example:
//
//	if err := engine.Ping(ctx); err != nil {
//	    logger.Error("database ping failed", err, map[string]interface{}{
//	        "host": cfg.Connection.Host,
//	    })
//	}
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs a critical error message and terminates the process with os.Exit(1).
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

// With returns a child logger that carries the given fields on every entry.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{Zap: l.Zap.With(l.convertToZapFields(nil, fields)...)}
}
