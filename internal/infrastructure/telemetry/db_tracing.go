package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled    bool
	LogFullSQL bool // include bound variables in spans
	DBName     string
}

const startKey = "flock:query_start"

// RegisterDBTracing installs the otelgorm plugin plus a callback that tags
// spans with the table and affected rows and flags failures.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("flock_trace:before_create", markStart),
		cb.Create().After("gorm:create").Register("flock_trace:after_create", annotateSpan),
		cb.Query().Before("gorm:query").Register("flock_trace:before_query", markStart),
		cb.Query().After("gorm:query").Register("flock_trace:after_query", annotateSpan),
		cb.Update().Before("gorm:update").Register("flock_trace:before_update", markStart),
		cb.Update().After("gorm:update").Register("flock_trace:after_update", annotateSpan),
		cb.Delete().Before("gorm:delete").Register("flock_trace:before_delete", markStart),
		cb.Delete().After("gorm:delete").Register("flock_trace:after_delete", annotateSpan),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}

	logger.Info("database tracing enabled", zap.Bool("log_full_sql", cfg.LogFullSQL))
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func annotateSpan(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", db.Statement.RowsAffected)}
	if db.Statement.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
	}
	if v, ok := db.InstanceGet(startKey); ok {
		if start, ok := v.(time.Time); ok {
			attrs = append(attrs, attribute.Int64("db.query_duration_ms", time.Since(start).Milliseconds()))
		}
	}
	span.SetAttributes(attrs...)
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
