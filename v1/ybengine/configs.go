package ybengine

import (
	"net"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything needed to open the shared connection pool.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection describes how to reach the YSQL endpoint.
type Connection struct {
	Host     string `yaml:"host" split_words:"true" default:"localhost"`
	Port     string `yaml:"port" split_words:"true" default:"5433"`
	User     string `yaml:"user" split_words:"true" default:"yugabyte"`
	Password string `yaml:"password" split_words:"true"`
	DbName   string `yaml:"db_name" split_words:"true" default:"yugabyte"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true" default:"disable"`
}

// ConnectionDetails tunes the pool. Zero values fall back to package defaults.
type ConnectionDetails struct {
	// MaxConns bounds concurrent connections; callers beyond it wait.
	MaxConns int32 `yaml:"max_conns" split_words:"true"`

	MinConns int32 `yaml:"min_conns" split_words:"true"`

	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" split_words:"true"`

	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" split_words:"true"`

	HealthCheckPeriod time.Duration `yaml:"health_check_period" split_words:"true"`
}

const (
	defaultMaxConns        = 50
	defaultMaxConnLifetime = 30 * time.Minute
	defaultMaxConnIdleTime = 5 * time.Minute
)

// DSN renders the connection as a postgres:// URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Connection.User, c.Connection.Password),
		Host:   net.JoinHostPort(c.Connection.Host, c.Connection.Port),
		Path:   "/" + c.Connection.DbName,
	}
	if c.Connection.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.Connection.SSLMode}}.Encode()
	}
	return u.String()
}

// NewConfigFromEnv reads YB_HOST, YB_PORT, YB_USER, YB_PASSWORD, YB_DB_NAME,
// YB_SSL_MODE and the YB_POOL_* tuning variables.
func NewConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("YB", &cfg.Connection); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process("YB_POOL", &cfg.ConnectionDetails); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
