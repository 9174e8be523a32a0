// internal/app/cascade/register.go
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

// RegisterForEvent registers userID for eventID.
//
// Ordered steps: bootstrap the user document (mandatory); load and validate
// the event — capacity and date are soft constraints checked without a lock,
// so two racing registrations near capacity can both pass and transiently
// overfill the event (accepted, see package doc); toggle both sides of the
// membership in one atomic batch (mandatory); then best-effort chat
// membership when the event has a chat room.
func (s *Service) RegisterForEvent(ctx context.Context, eventID, userID primitive.ObjectID) (RegisterResult, error) {
	res := RegisterResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpRegisterForEvent,
		ActorID:       userID,
		EventID:       oid(eventID),
		CorrelationID: res.CorrelationID,
	}

	if _, err := s.users.EnsureExists(ctx, userID); err != nil {
		return res, s.fail(ctx, entry, err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if err == eventstore.ErrEventNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This event no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}

	if event.IsRegistered(userID) {
		// Both sides already hold the membership ($addToSet would be a
		// no-op); report the current state without re-running the capacity
		// check, which would wrongly reject a full event's own registrant.
		res.Registered = true
		entry.Success = true
		s.record(ctx, entry)
		return res, nil
	}
	if !event.HasCapacity() {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.FailedPrecondition, "This event is already at full capacity."))
	}
	if event.HasOccurred(time.Now().UTC()) {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.FailedPrecondition, "This event has already taken place."))
	}

	b := batch.New(s.db, s.log)
	b.AddUpdate(eventstore.Collection, bson.M{"_id": eventID}, bson.M{
		"$addToSet": bson.M{"registered_volunteers": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	b.AddUpdate(userstore.Collection, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"registered_events": eventID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if commit := b.Commit(ctx); commit.Err != nil {
		return res, s.fail(ctx, entry, commit.Err)
	}
	res.Registered = true

	if event.WithChat {
		created := false
		ok := s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
			var err error
			created, err = s.chat.EnsureRoom(ctx, eventID, []primitive.ObjectID{event.OrganizationID})
			return err
		})
		res.ChatCreated = created
		if ok {
			res.ChatUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
				return s.chat.AddParticipant(ctx, chatstore.RoomID(eventID), userID)
			})
		}
	}

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}

// UnregisterFromEvent removes userID from eventID. There is no precondition
// beyond the event existing; the symmetric removal commits in one atomic
// batch, then chat membership is cleaned up best-effort.
func (s *Service) UnregisterFromEvent(ctx context.Context, eventID, userID primitive.ObjectID) (RegisterResult, error) {
	res := RegisterResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpUnregisterFromEvent,
		ActorID:       userID,
		EventID:       oid(eventID),
		CorrelationID: res.CorrelationID,
	}

	if _, err := s.users.EnsureExists(ctx, userID); err != nil {
		return res, s.fail(ctx, entry, err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if err == eventstore.ErrEventNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This event no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}

	b := batch.New(s.db, s.log)
	b.AddUpdate(eventstore.Collection, bson.M{"_id": eventID}, bson.M{
		"$pull": bson.M{"registered_volunteers": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	b.AddUpdate(userstore.Collection, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"registered_events": eventID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if commit := b.Commit(ctx); commit.Err != nil {
		return res, s.fail(ctx, entry, commit.Err)
	}

	if event.WithChat {
		res.ChatUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
			return s.chat.RemoveParticipant(ctx, chatstore.RoomID(eventID), userID)
		})
	}

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}
