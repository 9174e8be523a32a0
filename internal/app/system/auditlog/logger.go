// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config controls where cascade audit entries go.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only),
// "off" (disabled).
type Config struct {
	Mode string
}

// Logger records cascade operation outcomes, keyed by acting user id and
// operation context. Recording is strictly best-effort: a failed audit write
// is logged at debug level and never surfaces to the caller.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger. A nil Logger is usable and is a no-op, so
// tests can skip audit wiring entirely.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// Record logs the entry according to configuration.
func (l *Logger) Record(ctx context.Context, entry audit.Entry) {
	if l == nil || l.config.Mode == "off" {
		return
	}

	if l.config.Mode == "all" || l.config.Mode == "log" {
		l.logToZap(entry)
	}
	if l.config.Mode == "all" || l.config.Mode == "db" {
		if l.store != nil {
			if err := l.store.Log(ctx, entry); err != nil && l.zapLog != nil {
				// Swallowed: audit persistence must never fail an operation.
				l.zapLog.Debug("audit write failed", zap.Error(err))
			}
		}
	}
}

func (l *Logger) logToZap(entry audit.Entry) {
	if l.zapLog == nil {
		return
	}
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("operation", entry.Operation),
		zap.String("actor_id", entry.ActorID.Hex()),
		zap.String("correlation_id", entry.CorrelationID),
		zap.Bool("success", entry.Success),
	}
	if entry.EventID != nil {
		fields = append(fields, zap.String("event_id", entry.EventID.Hex()))
	}
	if entry.OrgID != nil {
		fields = append(fields, zap.String("org_id", entry.OrgID.Hex()))
	}
	if entry.UserID != nil {
		fields = append(fields, zap.String("user_id", entry.UserID.Hex()))
	}
	if len(entry.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", entry.Errors))
	}
	for k, v := range entry.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if entry.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}
