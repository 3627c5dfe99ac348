// Package logger provides the structured logger used across the module.
//
// It wraps go.uber.org/zap with a fixed call shape:
//
//	log.Info(msg string, err error, fields ...map[string]interface{})
//
// The same shape exists for Debug, Warn, Error and Fatal. Other packages do not
// import *Logger directly; each declares a local Logger interface with these
// methods, so tests can swap in a gomock mock or NewNop.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Debug,
//	    ServiceName: "ingest",
//	})
//	log.Debug("embedding batch", nil, map[string]interface{}{"size": 64})
//
// # Configuration
//
// NewConfigFromEnv reads ZAP_LOGGER_LEVEL, ZAP_LOGGER_SERVICE_NAME and
// ZAP_LOGGER_DEVELOPMENT.
//
// # FX Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(logger.NewConfigFromEnv),
//	)
package logger
