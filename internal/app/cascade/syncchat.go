// internal/app/cascade/syncchat.go
package cascade

import (
	"context"

	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/chat"
	"github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncChatParticipants is the explicit read-repair for chat participant
// drift: it recomputes the expected set as registered volunteers plus the
// owning organization and overwrites the room's participants with exactly
// that set. Only the owning organization may trigger it.
func (s *Service) SyncChatParticipants(ctx context.Context, eventID, organizationID, requesterID primitive.ObjectID) (SyncResult, error) {
	res := SyncResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpSyncChatParticipants,
		ActorID:       requesterID,
		EventID:       oid(eventID),
		OrgID:         oid(organizationID),
		CorrelationID: res.CorrelationID,
	}

	if requesterID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can sync its chat."))
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
			"Only the organization that owns this event can sync its chat."))
	}

	want := make([]primitive.ObjectID, 0, len(event.RegisteredVolunteers)+1)
	want = append(want, event.RegisteredVolunteers...)
	if !event.IsRegistered(organizationID) {
		want = append(want, organizationID)
	}

	created, err := s.chat.EnsureRoom(ctx, eventID, want)
	if err != nil {
		return res, s.fail(ctx, entry, err)
	}
	res.RoomCreated = created
	if !created {
		// Full replace, not incremental: the room existed and may have
		// drifted in either direction.
		if err := s.chat.ReplaceParticipants(ctx, chatstore.RoomID(eventID), want); err != nil {
			return res, s.fail(ctx, entry, err)
		}
	}
	res.Participants = len(want)

	entry.Success = true
	s.record(ctx, entry)
	return res, nil
}
