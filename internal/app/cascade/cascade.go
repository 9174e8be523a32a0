// internal/app/cascade/cascade.go

// Package cascade implements the business actions that must keep
// denormalized, cross-collection relationships consistent: event
// registration, event deletion with cleanup, volunteer removal, organization
// follows, and chat participant reconciliation.
//
// The store offers no foreign keys and no cross-collection cascade, so each
// operation here is a single ordered pass: mandatory steps abort the pass
// and surface a classified error; best-effort steps record their failure in
// the result and never abort siblings. Cascades that span many documents are
// not atomic end-to-end; every queued mutation is idempotent so a partially
// applied cascade can be re-run or repaired.
package cascade

import (
	"context"
	"time"

	"github.com/dalemusser/voluhub/internal/app/store/applications"
	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/chat"
	"github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/app/store/notifications"
	"github.com/dalemusser/voluhub/internal/app/store/organizations"
	"github.com/dalemusser/voluhub/internal/app/store/users"
	"github.com/dalemusser/voluhub/internal/app/system/auditlog"
	"github.com/dalemusser/voluhub/internal/app/system/retry"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service bundles the stores a cascade operation touches. Blob storage and
// the audit logger may be nil; both degrade to no-ops (image cleanup skipped
// with a recorded message, audit not written).
type Service struct {
	db    *mongo.Database
	log   *zap.Logger
	blobs storage.Store
	audit *auditlog.Logger

	events *eventstore.Store
	users  *userstore.Store
	orgs   *organizationstore.Store
	chat   *chatstore.Store
	notes  *notificationstore.Store
	apps   *applicationstore.Store

	retryAttempts  int
	retryBaseDelay time.Duration
}

// New constructs the cascade service over one database.
func New(db *mongo.Database, blobs storage.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{
		db:    db,
		log:   logger,
		blobs: blobs,
		audit: auditLog,

		events: eventstore.New(db),
		users:  userstore.New(db),
		orgs:   organizationstore.New(db),
		chat:   chatstore.New(db),
		notes:  notificationstore.New(db),
		apps:   applicationstore.New(db),

		retryAttempts:  retry.DefaultAttempts,
		retryBaseDelay: retry.DefaultBaseDelay,
	}
}

// ConfigureRetry overrides the attempts/backoff used for the best-effort
// secondary cleanup steps. Zero values keep the defaults.
func (s *Service) ConfigureRetry(attempts int, baseDelay time.Duration) {
	if attempts > 0 {
		s.retryAttempts = attempts
	}
	if baseDelay > 0 {
		s.retryBaseDelay = baseDelay
	}
}

// record writes the audit entry for a finished operation, best-effort.
func (s *Service) record(ctx context.Context, entry audit.Entry) {
	s.audit.Record(ctx, entry)
}

// fail classifies err, audits the failed operation, and returns the
// classified error for the caller.
func (s *Service) fail(ctx context.Context, entry audit.Entry, err error) error {
	classified := storeerr.Wrap(err)
	entry.Success = false
	entry.Errors = append(entry.Errors, classified.Error())
	s.record(ctx, entry)
	if s.log != nil {
		s.log.Warn("cascade operation failed",
			zap.String("operation", entry.Operation),
			zap.String("correlation_id", entry.CorrelationID),
			zap.String("class", string(classified.Class)),
			zap.Error(err))
	}
	return classified
}

// runBestEffort executes op with bounded retry and, on final failure,
// appends the classified user message to errs. Returns true on success.
func (s *Service) runBestEffort(ctx context.Context, errs *[]string, op func(context.Context) error) bool {
	err := retry.Run(ctx, s.retryAttempts, s.retryBaseDelay, op)
	if err == nil {
		return true
	}
	*errs = append(*errs, storeerr.UserMessage(err))
	return false
}

func oid(id primitive.ObjectID) *primitive.ObjectID { return &id }
