package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the log level and the service name stamped on every entry.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else means info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is added as the "service" field of each entry.
	ServiceName string `yaml:"service_name" envconfig:"ZAP_LOGGER_SERVICE_NAME" default:"yb-vectorstore"`

	// Development switches to the console encoder with colored levels.
	Development bool `yaml:"development" envconfig:"ZAP_LOGGER_DEVELOPMENT"`
}
