package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends GORM output to slog under component=gorm. Statements are
// logged without their bound values.
type gormLogger struct {
	log           *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(l *slog.Logger) *gormLogger {
	return &gormLogger{
		log:           l.With(slog.String("component", "gorm")),
		level:         logger.Warn,
		slowThreshold: slowQueryThreshold,
	}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, logger.Info, msg, data...)
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, logger.Warn, msg, data...)
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	g.printf(ctx, logger.Error, msg, data...)
}

func (g *gormLogger) printf(ctx context.Context, level logger.LogLevel, format string, args ...any) {
	if g.level < level {
		return
	}
	g.log.Log(ctx, slogLevel(level), fmt.Sprintf(format, args...))
}

// Trace logs failed statements at error, statements slower than slowThreshold
// at warn and everything else at info. ErrRecordNotFound is an ordinary
// lookup miss and is not a failure.
func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg := logger.Info, "sql"
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		level, msg = logger.Error, "sql failed"
	case g.slowThreshold > 0 && elapsed > g.slowThreshold:
		level, msg = logger.Warn, "slow sql"
	}
	if g.level < level {
		return
	}

	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Duration("elapsed", elapsed),
	}
	if rows >= 0 {
		attrs = append(attrs, slog.Int64("rows", rows))
	}
	if level == logger.Error {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	g.log.LogAttrs(ctx, slogLevel(level), msg, attrs...)
}

// ParamsFilter drops bind values (password hashes, share hashes) from logged SQL.
func (g *gormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

func slogLevel(level logger.LogLevel) slog.Level {
	switch level {
	case logger.Error:
		return slog.LevelError
	case logger.Warn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
