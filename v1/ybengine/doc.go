// Package ybengine manages the connection pool shared by vector stores on a
// YugabyteDB (YSQL) database.
//
// # Architecture
//
// An Engine is built once per database and passed to every store. It owns:
//
//   - a pgxpool.Pool, bounded by ConnectionDetails.MaxConns
//   - a gorm session bridged onto that pool through pgx's database/sql adapter
//   - a background worker that drives operations for RunSync and RunAsync
//
// Every operation checks out exactly one connection through Connect and gives
// it back on every exit path. There is no locking across operations; callers
// beyond the pool size wait for a free connection.
//
// # Usage
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
//
//	if err := engine.InitVectorstoreTable(ctx, ybengine.DefaultTableOptions("documents", 768)); err != nil {
//	    return err
//	}
//
//	err = engine.Connect(ctx, func(conn *ybengine.Conn) error {
//	    _, err := conn.Exec("ANALYZE documents")
//	    return err
//	})
//
// From code that does not run its own goroutines:
//
//	err := engine.RunSync(ctx, func(ctx context.Context) error {
//	    _, err := store.AddTexts(ctx, texts, nil, nil)
//	    return err
//	})
//
// # Errors
//
// Operations return driver errors untouched. TranslateError maps the common
// SQLSTATE codes onto ErrDuplicateKey, ErrForeignKey, ErrUndefinedTable and
// ErrUndefinedColumn; IsRetryable flags connection and serialization
// failures. A connection that cannot be acquired surfaces as *ResourceError.
// After Close every entry point returns ErrEngineClosed.
//
// # Testing
//
// NewEngineWithDialector accepts any gorm dialect. The package tests run on
// in-memory SQLite; the integration tests start YugabyteDB with
// testcontainers and are skipped under -short.
//
// # Configuration
//
//	YB_HOST, YB_PORT, YB_USER, YB_PASSWORD, YB_DB_NAME, YB_SSL_MODE
//	YB_POOL_MAX_CONNS, YB_POOL_MIN_CONNS, YB_POOL_MAX_CONN_LIFETIME,
//	YB_POOL_MAX_CONN_IDLE_TIME, YB_POOL_HEALTH_CHECK_PERIOD
package ybengine
