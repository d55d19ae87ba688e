package telemetry

import (
	"errors"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// RegisterDBTracing installs otelgorm on db and flags statements slower
// than cfg.DBSlowQueryThresh on their span. It is a no-op unless
// cfg.DBTraceEnabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
	after := func(tx *gorm.DB) { markSlow(tx, threshold) }

	cb := db.Callback()
	pairs := []struct {
		name   string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, p := range pairs {
		if err := errors.Join(
			p.before("telemetry:before_"+p.name, before),
			p.after("telemetry:after_"+p.name, after),
		); err != nil {
			return err
		}
	}

	logger.Info("database tracing enabled",
		zap.Bool("full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func markSlow(tx *gorm.DB, threshold time.Duration) {
	if threshold <= 0 || tx.Statement.Context == nil {
		return
	}
	v, ok := tx.InstanceGet(startedAtKey)
	if !ok {
		return
	}
	elapsed := time.Since(v.(time.Time))
	if elapsed <= threshold {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
}
