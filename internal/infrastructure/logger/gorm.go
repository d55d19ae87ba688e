package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output through zap
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger. Queries slower than slowThreshold are
// logged at warn level; zero disables slow-query reporting.
func NewGormLogger(l *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{logger: l.Named("gorm"), level: level, slowThreshold: slowThreshold}
}

// LogMode implements gormlogger.Interface
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (g *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Info {
		Enrich(ctx, g.logger).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (g *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Warn {
		Enrich(ctx, g.logger).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (g *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Error {
		Enrich(ctx, g.logger).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	l := Enrich(ctx, g.logger)
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		l.Error("sql error", append(fields, zap.Error(err))...)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		l.Warn("slow sql", append(fields, zap.Duration("threshold", g.slowThreshold))...)
	case g.level >= gormlogger.Info:
		l.Debug("sql", fields...)
	}
}

// GormLevel maps an application log level to a GORM log level
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
