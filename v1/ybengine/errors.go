package ybengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrResource marks failures to obtain a connection from the pool.
	ErrResource = errors.New("connection resource unavailable")

	// ErrEngineClosed is returned by every entry point after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrDuplicateKey is returned by TranslateError for unique violations.
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned by TranslateError for foreign key violations.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrUndefinedTable is returned by TranslateError when a relation does not exist.
	ErrUndefinedTable = errors.New("undefined table")

	// ErrUndefinedColumn is returned by TranslateError when a column does not exist.
	ErrUndefinedColumn = errors.New("undefined column")
)

// PostgreSQL error codes the engine classifies.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgUndefinedTable       = "42P01"
	pgUndefinedColumn      = "42703"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgConnectionClass      = "08"
)

// ResourceError reports that a connection could not be acquired. It is never
// retried by the engine.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("ybengine: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrResource) hold for every ResourceError.
func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// SQLState returns the SQLSTATE code carried by err, or "" when err did not
// come from the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// TranslateError maps driver errors onto the package sentinels. Operations
// return raw driver errors; callers that want the normalized form call this.
// Unknown errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch SQLState(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case pgUndefinedTable:
		return fmt.Errorf("%w: %w", ErrUndefinedTable, err)
	case pgUndefinedColumn:
		return fmt.Errorf("%w: %w", ErrUndefinedColumn, err)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}

	return err
}

// IsRetryable reports whether err is a connection-class or serialization
// failure that may succeed when the whole operation is repeated.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	code := SQLState(err)
	switch {
	case code == pgSerializationFailure, code == pgDeadlockDetected:
		return true
	case strings.HasPrefix(code, pgConnectionClass):
		return true
	}
	return false
}
