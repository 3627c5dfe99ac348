package ybengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxBindParameters is the PostgreSQL wire protocol limit on parameters in a
// single statement.
const MaxBindParameters = 65535

// Conn is one connection checked out of the pool for the duration of a
// Connect callback. It must not be retained after the callback returns.
type Conn struct {
	db     *gorm.DB
	engine *Engine
}

// Connect checks a dedicated connection out of the pool, runs fn with it and
// returns the connection on every exit path: success, error, panic or
// context cancellation. Callers beyond the pool size wait here.
//
// Failure to obtain the connection is reported as a *ResourceError and is
// not retried.
func (e *Engine) Connect(ctx context.Context, fn func(*Conn) error) error {
	if e == nil || e.db == nil || e.released.Load() {
		return ErrEngineClosed
	}
	if err := ctx.Err(); err != nil {
		return &ResourceError{Op: "acquire connection", Err: err}
	}

	acquired := false
	err := e.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		acquired = true
		return fn(&Conn{db: tx, engine: e})
	})
	if err != nil && !acquired {
		if errors.Is(err, sql.ErrConnDone) || e.released.Load() {
			return ErrEngineClosed
		}
		return &ResourceError{Op: "acquire connection", Err: err}
	}
	return err
}

// Dialect returns the dialect of the owning engine.
func (c *Conn) Dialect() string { return c.engine.dialect }

// Exec runs a statement and returns the number of affected rows.
func (c *Conn) Exec(sql string, args ...any) (int64, error) {
	result := c.db.Exec(sql, args...)
	return result.RowsAffected, result.Error
}

// Query runs a statement and returns every row as a column → value map.
// Values are what the driver hands to database/sql: strings, []byte,
// int64, float64, bool, time.Time or nil.
func (c *Conn) Query(sql string, args ...any) ([]map[string]any, error) {
	rows, err := c.db.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// Insert writes rows into table with as few statements as the bind-parameter
// limit allows. When more than one statement is needed they run inside a
// single transaction, so the call is all-or-nothing. table must already be
// quoted, see QualifiedName.
func (c *Conn) Insert(table string, rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	start := time.Now()

	batchSize := BatchSizeFor(len(rows[0]))
	// The INSERT clause carries the quoted name; Table only tells gorm that
	// map rows have a destination.
	result := c.db.
		Clauses(clause.Insert{Table: clause.Table{Name: table, Raw: true}}).
		Table(table).
		CreateInBatches(&rows, batchSize)

	c.engine.observe("insert", table, start, result.Error, result.RowsAffected)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteIn removes every row of table whose column matches one of values and
// returns the number of rows removed.
func (c *Conn) DeleteIn(table, column string, values []any) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	start := time.Now()

	var deleted int64
	err := c.inChunks(len(values), func(conn *Conn, lo, hi int) error {
		result := conn.db.Exec("DELETE FROM ? WHERE ? IN ?",
			clause.Table{Name: table, Raw: true},
			clause.Column{Name: column},
			values[lo:hi],
		)
		deleted += result.RowsAffected
		return result.Error
	})

	c.engine.observe("delete", table, start, err, deleted)
	return deleted, err
}

// Transaction runs fn inside a transaction on this connection.
func (c *Conn) Transaction(fn func(*Conn) error) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Conn{db: tx, engine: c.engine})
	})
}

// inChunks calls fn for consecutive [lo, hi) windows no larger than the bind
// limit. More than one window runs in a transaction.
func (c *Conn) inChunks(n int, fn func(conn *Conn, lo, hi int) error) error {
	if n <= MaxBindParameters {
		return fn(c, 0, n)
	}
	return c.Transaction(func(tx *Conn) error {
		for lo := 0; lo < n; lo += MaxBindParameters {
			hi := min(lo+MaxBindParameters, n)
			if err := fn(tx, lo, hi); err != nil {
				return err
			}
		}
		return nil
	})
}

// BatchSizeFor returns how many rows of the given width fit in one statement.
func BatchSizeFor(columns int) int {
	if columns <= 0 {
		return MaxBindParameters
	}
	return max(1, MaxBindParameters/columns)
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
