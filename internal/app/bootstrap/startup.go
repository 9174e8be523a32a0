// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/voluhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to apply config-driven tuning or perform any app-wide setup that
// depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	applyTimeouts(appCfg)
	logger.Info("timeouts configured",
		zap.Duration("long", timeouts.Long()),
		zap.Duration("batch", timeouts.Batch()))
	return nil
}

// applyTimeouts overrides handler timeouts from app config. Zero values keep
// the built-in defaults.
func applyTimeouts(appCfg AppConfig) {
	timeouts.Configure(timeouts.Config{
		Long:  appCfg.TimeoutLong,
		Batch: appCfg.TimeoutBatch,
	})
}
