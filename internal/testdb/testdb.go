// Package testdb provides shared database fixtures for package tests: an
// in-memory SQLite engine for fast tests and a YugabyteDB container for
// integration tests.
package testdb

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"

	"github.com/yugabyte/yb-vectorstore/v1/logger"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

var sqliteSeq atomic.Int64

// NewSQLiteEngine returns an engine over a private in-memory SQLite database,
// limited to a single connection, after running the given statements. The
// engine is closed when the test finishes.
func NewSQLiteEngine(t *testing.T, statements ...string) *ybengine.Engine {
	t.Helper()
	return NewSQLiteEngineWithOptions(t, nil, statements...)
}

// NewSQLiteEngineWithOptions is NewSQLiteEngine with engine options and an
// optional logger. A nil logger discards output.
func NewSQLiteEngineWithOptions(t *testing.T, log ybengine.Logger, statements ...string) *ybengine.Engine {
	t.Helper()
	if log == nil {
		log = logger.NewNop()
	}

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", sqliteSeq.Add(1))
	engine, err := ybengine.NewEngineWithDialector(sqlite.Open(dsn), log)
	if err != nil {
		t.Fatalf("testdb.NewSQLiteEngine: open database: %v", err)
	}

	sqlDB, err := engine.DB().DB()
	if err != nil {
		t.Fatalf("testdb.NewSQLiteEngine: database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = engine.Close() })

	for _, stmt := range statements {
		if _, err := engine.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("testdb.NewSQLiteEngine: %v\nSQL: %s", err, stmt)
		}
	}
	return engine
}
