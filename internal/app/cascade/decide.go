// internal/app/cascade/decide.go
package cascade

import (
	"context"

	"github.com/dalemusser/voluhub/internal/app/store/applications"
	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecideApplication approves or rejects a pending application on behalf of
// the event's owning organization. The status transition is the mandatory
// step; on approval the applicant is mirrored into the event's
// approved_applicants set and the volunteer is notified, both best-effort.
func (s *Service) DecideApplication(ctx context.Context, applicationID, organizationID, requesterID primitive.ObjectID, status string) (DecideResult, error) {
	res := DecideResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpDecideApplication,
		ActorID:       requesterID,
		OrgID:         oid(organizationID),
		CorrelationID: res.CorrelationID,
	}

	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.InvalidArgument,
			`A decision must be "approved" or "rejected".`))
	}
	if requesterID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can decide applications."))
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if err == applicationstore.ErrApplicationNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This application no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}
	entry.EventID = oid(app.EventID)
	entry.UserID = oid(app.VolunteerID)

	event, err := s.events.GetByID(ctx, app.EventID)
	if err != nil {
		if err == eventstore.ErrEventNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound,
				"The event for this application no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}
	if event.OrganizationID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can decide applications."))
	}

	decided, err := s.apps.Decide(ctx, applicationID, status)
	if err != nil {
		if err == applicationstore.ErrAlreadyDecided {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.AlreadyInState,
				"This application has already been decided."))
		}
		return res, s.fail(ctx, entry, err)
	}
	res.Status = decided.Status

	if decided.Status == models.ApplicationApproved {
		res.EventUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
			return s.events.SetApprovedApplicant(ctx, app.EventID, app.VolunteerID)
		})
	}

	s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
		_, err := s.notes.CreateNotification(ctx, models.Notification{
			UserID:        app.VolunteerID,
			Kind:          "application_" + decided.Status,
			RelatedEntity: app.EventID.Hex(),
			Body:          "Your application for " + event.Title + " was " + decided.Status + ".",
		})
		return err
	})

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}
