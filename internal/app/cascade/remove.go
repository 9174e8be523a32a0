// internal/app/cascade/remove.go
package cascade

import (
	"context"
	"time"

	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/chat"
	"github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/app/store/users"
	"github.com/dalemusser/voluhub/internal/app/system/batch"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RemoveVolunteerFromEvent lets the owning organization remove a volunteer.
// Both membership sides are pulled in one atomic batch; the chat participant
// removal is a separate best-effort update.
func (s *Service) RemoveVolunteerFromEvent(ctx context.Context, eventID, volunteerID, organizationID, requesterID primitive.ObjectID) (RemoveResult, error) {
	res := RemoveResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpRemoveVolunteer,
		ActorID:       requesterID,
		EventID:       oid(eventID),
		OrgID:         oid(organizationID),
		UserID:        oid(volunteerID),
		CorrelationID: res.CorrelationID,
	}

	if requesterID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can remove volunteers."))
	}

	if _, err := s.users.EnsureExists(ctx, volunteerID); err != nil {
		return res, s.fail(ctx, entry, err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if err == eventstore.ErrEventNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This event no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}
	if event.OrganizationID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can remove volunteers."))
	}

	b := batch.New(s.db, s.log)
	b.AddUpdate(eventstore.Collection, bson.M{"_id": eventID}, bson.M{
		"$pull": bson.M{"registered_volunteers": volunteerID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	b.AddUpdate(userstore.Collection, bson.M{"_id": volunteerID}, bson.M{
		"$pull": bson.M{"registered_events": eventID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if commit := b.Commit(ctx); commit.Err != nil {
		return res, s.fail(ctx, entry, commit.Err)
	}
	res.Removed = true

	if event.WithChat {
		res.ChatUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
			return s.chat.RemoveParticipant(ctx, chatstore.RoomID(eventID), volunteerID)
		})
	}

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}
