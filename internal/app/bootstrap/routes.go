// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/voluhub/internal/app/cascade"
	eventsfeature "github.com/dalemusser/voluhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/voluhub/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/voluhub/internal/app/features/heartbeat"
	organizationsfeature "github.com/dalemusser/voluhub/internal/app/features/organizations"
	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// VoluHub builds the cascade service once and hands it to the event and
// organization feature routers. Every mutation that has to keep
// cross-collection relationships consistent goes through that one service.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.VoluHubMongoDatabase

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Mode: appCfg.AuditLogCascade})

	svc := cascade.New(db, deps.FileStore, auditLogger, logger)
	svc.ConfigureRetry(appCfg.RetryAttempts, appCfg.RetryBaseDelay)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.VoluHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Process liveness, no DB dependency
	heartbeatHandler := heartbeatfeature.NewHandler(time.Now().UTC(), logger)
	r.Mount("/api/heartbeat", heartbeatfeature.Routes(heartbeatHandler))

	// Event registration, deletion, volunteer removal, chat sync
	eventsHandler := eventsfeature.NewHandler(svc, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Organization follow/unfollow and follower stats
	orgHandler := organizationsfeature.NewHandler(svc, logger)
	r.Mount("/organizations", organizationsfeature.Routes(orgHandler))

	return r, nil
}
