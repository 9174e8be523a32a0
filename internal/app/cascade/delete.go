// internal/app/cascade/delete.go
package cascade

import (
	"context"
	"fmt"

	"github.com/dalemusser/voluhub/internal/app/store/applications"
	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/chat"
	"github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/app/store/notifications"
	"github.com/dalemusser/voluhub/internal/app/system/batch"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DeleteEventWithCleanup deletes an event and everything that references it.
//
// The authorization check runs before any write: only the owning
// organization may delete. Secondary references (chat messages and room,
// notifications, activities, applications) are gathered best-effort and
// queued alongside the event delete through the batch coordinator, so a
// cascade larger than one physical batch commits in ordered sub-batches and
// is only eventually consistent. Formerly registered users are cleaned
// individually before the batch commit, while the event document and its
// volunteer list still exist, so an interrupted cascade can be re-run and
// the idempotent pulls repair any stragglers. One user's failing update is
// recorded in the tally's Errors and does not stop the rest. The event's
// custom image blob is removed only after the batch commit succeeds.
func (s *Service) DeleteEventWithCleanup(ctx context.Context, eventID, organizationID, requesterID primitive.ObjectID) (DeleteResult, error) {
	res := DeleteResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpDeleteEvent,
		ActorID:       requesterID,
		EventID:       oid(eventID),
		OrgID:         oid(organizationID),
		CorrelationID: res.CorrelationID,
	}

	if requesterID != organizationID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.PermissionDenied,
			"Only the organization that owns this event can delete it."))
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
			"Only the organization that owns this event can delete it."))
	}

	b := batch.New(s.db, s.log)
	roomID := chatstore.RoomID(eventID)

	// Chat: queue every message plus the room document. A failure while
	// gathering is recorded and skips only the chat portion.
	var queuedMessages, queuedRoom int
	if msgIDs, err := s.chat.ListMessageIDs(ctx, roomID); err != nil {
		res.Errors = append(res.Errors, storeerr.UserMessage(err))
	} else {
		for _, id := range msgIDs {
			b.AddDelete(chatstore.MessagesCollection, bson.M{"_id": id})
		}
		queuedMessages = len(msgIDs)
		b.AddDelete(chatstore.RoomsCollection, bson.M{"_id": roomID})
		queuedRoom = 1
	}

	// Notifications and activities referencing the event or its room.
	related := []string{eventID.Hex(), roomID}
	var queuedNotifications, queuedActivities int
	if ids, err := s.notes.NotificationIDsByRelatedEntity(ctx, related...); err != nil {
		res.Errors = append(res.Errors, storeerr.UserMessage(err))
	} else {
		for _, id := range ids {
			b.AddDelete(notificationstore.Collection, bson.M{"_id": id})
		}
		queuedNotifications = len(ids)
	}
	if ids, err := s.notes.ActivityIDsByRelatedEntity(ctx, related...); err != nil {
		res.Errors = append(res.Errors, storeerr.UserMessage(err))
	} else {
		for _, id := range ids {
			b.AddDelete(notificationstore.ActivitiesCollection, bson.M{"_id": id})
		}
		queuedActivities = len(ids)
	}

	// Applications scoped under the event.
	var queuedApplications int
	if ids, err := s.apps.ListIDsByEvent(ctx, eventID); err != nil {
		res.Errors = append(res.Errors, storeerr.UserMessage(err))
	} else {
		for _, id := range ids {
			b.AddDelete(applicationstore.Collection, bson.M{"_id": id})
		}
		queuedApplications = len(ids)
	}

	// The event document itself, last in the queue: if an earlier sub-batch
	// fails, the event survives and the cascade can be re-run.
	b.AddDelete(eventstore.Collection, bson.M{"_id": eventID})

	// Each formerly registered user is cleaned on its own so one failure
	// cannot abort the others. This runs before the batch commit removes
	// the event: if the commit fails, the event and its volunteer list
	// survive, and a re-run repeats the idempotent pulls. Bootstrap first:
	// the pull must not silently target a missing document.
	for _, volunteerID := range event.RegisteredVolunteers {
		ok := s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
			if _, err := s.users.EnsureExists(ctx, volunteerID); err != nil {
				return err
			}
			return s.users.RemoveRegisteredEvent(ctx, volunteerID, eventID)
		})
		if ok {
			res.UsersUpdated++
		} else if s.log != nil {
			s.log.Warn("event delete: user cleanup failed",
				zap.String("event_id", eventID.Hex()),
				zap.String("user_id", volunteerID.Hex()))
		}
	}

	commit := b.Commit(ctx)
	res.MessagesDeleted, res.NotificationsDeleted, res.ActivitiesDeleted, res.ApplicationsDeleted =
		tallyCommitted(commit.Committed, queuedMessages, queuedRoom, queuedNotifications, queuedActivities, queuedApplications)
	res.ChatRoomDeleted = queuedRoom == 1 && commit.Committed >= queuedMessages+queuedRoom
	res.EventDeleted = commit.Err == nil
	if commit.Err != nil {
		entry.Details = map[string]string{"committed": fmt.Sprintf("%d", commit.Committed)}
		return res, s.fail(ctx, entry, commit.Err)
	}

	// Blob cleanup runs only after the primary commit, independent of its
	// tally. A missing blob store just records a message.
	if event.HasCustomImage {
		if s.blobs == nil {
			res.Errors = append(res.Errors, "Event image was not removed: no blob storage is configured.")
		} else {
			res.ImageDeleted = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
				return s.blobs.Delete(ctx, ImagePath(eventID))
			})
		}
	}

	entry.Success = true
	entry.Errors = res.Errors
	entry.Details = map[string]string{
		"messages_deleted": fmt.Sprintf("%d", res.MessagesDeleted),
		"users_updated":    fmt.Sprintf("%d", res.UsersUpdated),
	}
	s.record(ctx, entry)
	return res, nil
}

// ImagePath is the deterministic blob key for an event's custom image.
func ImagePath(eventID primitive.ObjectID) string {
	return "events/" + eventID.Hex() + "/image"
}

// tallyCommitted attributes a committed-mutation count back to the queue
// segments in their queued order: messages, room, notifications,
// activities, applications, event.
func tallyCommitted(committed, messages, room, notifications, activities, applications int) (m, n, a, ap int) {
	take := func(want int) int {
		got := want
		if committed < got {
			got = committed
		}
		committed -= got
		return got
	}
	m = take(messages)
	take(room)
	n = take(notifications)
	a = take(activities)
	ap = take(applications)
	return m, n, a, ap
}
