package ybengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 500 * time.Millisecond
	maxSQLLength       = 200
)

// gormLogger forwards gorm's statement log to the engine Logger. Failed
// statements are logged at error level, slow ones at warn, the rest at debug.
type gormLogger struct {
	logger Logger
}

func (l gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l gormLogger) Info(_ context.Context, msg string, args ...any) {
	l.logger.Info(fmt.Sprintf(msg, args...), nil, nil)
}

func (l gormLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(msg, args...), nil, nil)
}

func (l gormLogger) Error(_ context.Context, msg string, args ...any) {
	l.logger.Error(fmt.Sprintf(msg, args...), nil, nil)
}

func (l gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":         truncateSQL(sql),
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.Error("statement failed", err, fields)
	case elapsed > slowQueryThreshold:
		l.logger.Warn("slow statement", nil, fields)
	default:
		l.logger.Debug("statement", nil, fields)
	}
}

// truncateSQL keeps log lines readable when a batched insert renders
// thousands of placeholders.
func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	half := (maxSQLLength - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}
