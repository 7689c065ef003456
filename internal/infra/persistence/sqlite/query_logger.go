package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tiffin/config"
	"tiffin/internal/errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// queryLogger writes GORM's local store output to slog. Statements are
// logged with placeholders only, as the store holds the auth token.
type queryLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

var (
	_ logger.Interface  = (*queryLogger)(nil)
	_ gorm.ParamsFilter = (*queryLogger)(nil)
)

func newQueryLogger(base *slog.Logger, cfg *config.Config) *queryLogger {
	if base == nil {
		base = slog.New(slog.DiscardHandler)
	}

	l := &queryLogger{
		log:   base.With(slog.String("component", "local_store")),
		level: logger.Warn,
		slow:  50 * time.Millisecond,
	}
	if cfg != nil {
		if cfg.Env.Debug {
			l.level = logger.Info
		}
		if cfg.Store != nil && cfg.Store.SlowQuery != 0 {
			l.slow = cfg.Store.SlowQuery
		}
	}

	return l
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelDebug, msg, args)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *queryLogger) message(ctx context.Context, from logger.LogLevel, level slog.Level, format string, args []any) {
	if l.level < from {
		return
	}

	l.log.Log(ctx, level, fmt.Sprintf(format, args...))
}

// ParamsFilter drops bound values before GORM renders a statement for Trace.
func (l *queryLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		level, msg := slog.LevelError, "Local store query failed"
		if isBusy(err) {
			level, msg = slog.LevelWarn, "Local store busy"
		}
		l.log.LogAttrs(ctx, level, msg, append(statement(fc, elapsed), slog.Any("error", err))...)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		l.log.LogAttrs(ctx, slog.LevelWarn, "Local store slow query", append(statement(fc, elapsed), slog.Duration("threshold", l.slow))...)
	case l.level >= logger.Info:
		l.log.LogAttrs(ctx, slog.LevelDebug, "Local store query", statement(fc, elapsed)...)
	}
}

func statement(fc func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := fc()

	return []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}

// isBusy reports SQLite lock contention, which clears once the other writer finishes.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
