package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smith3v/impostor/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultSlowThreshold = 200 * time.Millisecond
	defaultGormLogLevel  = gormlogger.Warn
)

// storeLogger routes gorm output through the application slog logger so
// query faults land next to the store's own messages.
type storeLogger struct {
	slowThreshold time.Duration
	logLevel      gormlogger.LogLevel
}

func newGormLogger(levelValue string) (gormlogger.Interface, error) {
	level := defaultGormLogLevel
	var levelErr error
	if strings.TrimSpace(levelValue) != "" {
		level, levelErr = parseGormLogLevel(levelValue)
	}
	return &storeLogger{
		slowThreshold: defaultSlowThreshold,
		logLevel:      level,
	}, levelErr
}

func (l *storeLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *storeLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, gormlogger.Info, slog.LevelInfo, fmt.Sprintf(msg, data...))
}

func (l *storeLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, gormlogger.Warn, slog.LevelWarn, fmt.Sprintf(msg, data...))
}

func (l *storeLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, gormlogger.Error, slog.LevelError, fmt.Sprintf(msg, data...))
}

func (l *storeLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{"elapsed", elapsed, "rows", rows, "sql", sql}

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		// Lookups such as FindCategoryByName treat a miss as a normal answer.
		return
	case err != nil:
		l.emit(ctx, gormlogger.Error, slog.LevelError, "store query error", append(attrs, "error", err)...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.emit(ctx, gormlogger.Warn, slog.LevelWarn, "store slow query", append(attrs, "threshold", l.slowThreshold)...)
	default:
		l.emit(ctx, gormlogger.Info, slog.LevelInfo, "store query", attrs...)
	}
}

func (l *storeLogger) emit(ctx context.Context, gormLevel gormlogger.LogLevel, level slog.Level, msg string, attrs ...any) {
	if !l.enabled(gormLevel) {
		return
	}
	logger.Logger.Log(ctx, level, msg, attrs...)
}

func (l *storeLogger) enabled(level gormlogger.LogLevel) bool {
	if l.logLevel == gormlogger.Silent || l.logLevel < level {
		return false
	}
	switch level {
	case gormlogger.Info:
		return logger.Enabled(logger.INFO)
	case gormlogger.Warn:
		return logger.Enabled(logger.WARN)
	case gormlogger.Error:
		return logger.Enabled(logger.ERROR)
	default:
		return false
	}
}

func parseGormLogLevel(value string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "warn":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	default:
		return defaultGormLogLevel, fmt.Errorf("invalid gorm log level %q", value)
	}
}
