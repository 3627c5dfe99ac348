package embedding

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

// Config describes an OpenAI-compatible embeddings endpoint.
//
// Endpoint must point to the API root (for example https://host/v1); the
// client appends /embeddings itself.
type Config struct {
	Endpoint     string `yaml:"endpoint" envconfig:"EMBEDDING_ENDPOINT"`
	ServiceToken string `yaml:"service_token" envconfig:"EMBEDDING_SERVICE_TOKEN"`
	Model        string `yaml:"model" envconfig:"EMBEDDING_MODEL"`

	// HTTPTimeoutS bounds a single HTTP round trip, in seconds.
	HTTPTimeoutS int `yaml:"http_timeout_seconds" envconfig:"EMBEDDING_HTTP_TIMEOUT_SECONDS" default:"30"`

	// BatchSize caps the number of texts sent per request.
	BatchSize int `yaml:"batch_size" envconfig:"EMBEDDING_BATCH_SIZE" default:"64"`
}

// NewConfig reads the EMBEDDING_* environment variables.
func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("embedding: missing EMBEDDING_ENDPOINT")
	}
	if c.ServiceToken == "" {
		return errors.New("embedding: missing EMBEDDING_SERVICE_TOKEN")
	}
	if c.Model == "" {
		return errors.New("embedding: missing EMBEDDING_MODEL")
	}
	return nil
}
