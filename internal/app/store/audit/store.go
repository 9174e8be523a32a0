// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the audit log collection name.
const Collection = "audit_log"

// Operation names recorded by the cascade subsystem.
const (
	OpRegisterForEvent     = "register_for_event"
	OpUnregisterFromEvent  = "unregister_from_event"
	OpDeleteEvent          = "delete_event_with_cleanup"
	OpRemoveVolunteer      = "remove_volunteer_from_event"
	OpDecideApplication    = "decide_application"
	OpFollowOrganization   = "follow_organization"
	OpUnfollowOrganization = "unfollow_organization"
	OpSyncChatParticipants = "sync_chat_participants"
)

// Entry is one audit record: which actor ran which operation against which
// entities, whether it succeeded, and every error message the run collected
// (both raised and swallowed ones).
type Entry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp     time.Time          `bson:"timestamp"`
	CorrelationID string             `bson:"correlation_id"`

	Operation string              `bson:"operation"`
	ActorID   primitive.ObjectID  `bson:"actor_id"`
	EventID   *primitive.ObjectID `bson:"event_id,omitempty"`
	OrgID     *primitive.ObjectID `bson:"org_id,omitempty"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty"` // affected user, when not the actor

	Success bool     `bson:"success"`
	Errors  []string `bson:"errors,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Log inserts an audit entry, assigning ID and Timestamp if unset.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// GetByActor returns the most recent entries for an acting user.
func (s *Store) GetByActor(ctx context.Context, actorID primitive.ObjectID, limit int64) ([]Entry, error) {
	cur, err := s.c.Find(ctx, bson.M{"actor_id": actorID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
