package ybengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yugabyte/yb-vectorstore/v1/observability"
)

// Logger defines the logging contract of the engine.
//
//go:generate mockgen -source=setup.go -destination=mock_logger_test.go -package=ybengine
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"

	defaultSchema = "public"
)

// Engine owns one connection pool shared by every store built on it, plus a
// background worker that drives operations submitted through RunSync and
// RunAsync. Create it once per database and share it; Close tears down both
// the worker and the pool.
type Engine struct {
	db       *gorm.DB
	sqlDB    *sql.DB
	pool     *pgxpool.Pool
	dialect  string
	logger   Logger
	observer observability.Observer

	monitorInterval time.Duration

	tasks    chan task
	shutdown chan struct{}
	stopped  chan struct{}
	inflight sync.WaitGroup

	// mu orders task submission against Close.
	mu     sync.RWMutex
	closed atomic.Bool

	// released is set once in-flight work has drained and the pool is closing.
	released  atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithObserver reports administrative and row operations to o.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine opens a pgx pool for cfg, verifies it with a ping and layers a
// gorm session on top of it.
//
// Example:
//
//	cfg, err := ybengine.NewConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	engine, err := ybengine.NewEngine(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
func NewEngine(ctx context.Context, cfg Config, logger Logger, opts ...Option) (*Engine, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid connection configuration: %w", err)
	}

	// If config fields are not set (zero), apply package defaults.
	poolCfg.MaxConns = defaultMaxConns
	if cfg.ConnectionDetails.MaxConns > 0 {
		poolCfg.MaxConns = cfg.ConnectionDetails.MaxConns
	}
	if cfg.ConnectionDetails.MinConns > 0 {
		poolCfg.MinConns = cfg.ConnectionDetails.MinConns
	}
	poolCfg.MaxConnLifetime = defaultMaxConnLifetime
	if cfg.ConnectionDetails.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnectionDetails.MaxConnLifetime
	}
	poolCfg.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.ConnectionDetails.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnectionDetails.MaxConnIdleTime
	}
	if cfg.ConnectionDetails.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.ConnectionDetails.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &ResourceError{Op: "create pool", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &ResourceError{Op: "ping", Err: err}
	}

	engine, err := NewEngineFromPool(pool, logger, opts...)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to YugabyteDB", nil, map[string]interface{}{
		"host":      cfg.Connection.Host,
		"port":      cfg.Connection.Port,
		"database":  cfg.Connection.DbName,
		"max_conns": poolCfg.MaxConns,
	})
	return engine, nil
}

// NewEngineFromPool wraps an existing pgx pool. The engine takes ownership:
// Close closes the pool.
func NewEngineFromPool(pool *pgxpool.Pool, logger Logger, opts ...Option) (*Engine, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	e := newEngine(db, sqlDB, logger, opts...)
	e.pool = pool
	return e, nil
}

// NewEngineWithDialector builds an engine over any gorm dialect, for example
// gorm.io/driver/sqlite in tests. The pool limits are those of the dialect's
// *sql.DB.
func NewEngineWithDialector(dialector gorm.Dialector, logger Logger, opts ...Option) (*Engine, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger{logger: logger},
	})
	if err != nil {
		return nil, &ResourceError{Op: "open " + dialector.Name(), Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	return newEngine(db, sqlDB, logger, opts...), nil
}

func newEngine(db *gorm.DB, sqlDB *sql.DB, logger Logger, opts ...Option) *Engine {
	e := &Engine{
		db:       db,
		sqlDB:    sqlDB,
		dialect:  db.Dialector.Name(),
		logger:   logger,
		tasks:    make(chan task),
		shutdown: make(chan struct{}),
		stopped:  make(chan struct{}),

		monitorInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}

	go e.runWorker()
	return e
}

// Dialect returns the gorm dialect name, "postgres" for YugabyteDB.
func (e *Engine) Dialect() string { return e.dialect }

// DefaultSchema is the schema used when callers pass an empty one.
func (e *Engine) DefaultSchema() string {
	if e.dialect == dialectPostgres {
		return defaultSchema
	}
	return ""
}

// Pool returns the underlying pgx pool, or nil for dialector-based engines.
func (e *Engine) Pool() *pgxpool.Pool { return e.pool }

// DB exposes the gorm session for callers that need raw access.
func (e *Engine) DB() *gorm.DB { return e.db }

// Ping checks connectivity with a 5 second budget.
func (e *Engine) Ping(ctx context.Context) error {
	if e.released.Load() {
		return ErrEngineClosed
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := e.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// MonitorConnection pings the database every 10 seconds until ctx is done or
// the engine is closed. Failures are reported through the logger; the pool
// replaces broken connections on its own.
func (e *Engine) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(e.monitorInterval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-e.shutdown:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := e.Ping(ctx)
			switch {
			case errors.Is(err, ErrEngineClosed):
				return
			case err != nil:
				healthy = false
				e.logger.Error("database health check failed", err, nil)
			case !healthy:
				healthy = true
				e.logger.Info("database connection recovered", nil, nil)
			}
		}
	}
}

// Close stops the background worker, waits for in-flight operations and
// closes the pool. It is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed.Store(true)
		e.mu.Unlock()

		close(e.shutdown)
		<-e.stopped
		e.inflight.Wait()

		e.released.Store(true)
		if err := e.sqlDB.Close(); err != nil {
			e.closeErr = err
		}
		if e.pool != nil {
			e.pool.Close()
		}
		e.logger.Info("engine closed", nil, map[string]interface{}{"dialect": e.dialect})
	})
	return e.closeErr
}

func (e *Engine) observe(operation, resource string, start time.Time, err error, size int64) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveOperation(observability.OperationContext{
		Component: "ybengine",
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}
