// internal/app/store/chat/chatstore.go
package chatstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/voluhub/internal/app/system/ensure"
	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names owned by this package, exported for batch mutations.
const (
	RoomsCollection    = "chat_rooms"
	MessagesCollection = "chat_messages"
)

var ErrRoomNotFound = errors.New("chat room not found")

// bodyPolicy strips all HTML from message bodies before they are stored.
// Message text is rendered in multiple clients; storing it pre-sanitized is
// the one place this can be enforced.
var bodyPolicy = bluemonday.StrictPolicy()

// RoomID derives the deterministic chat room id for an event.
func RoomID(eventID primitive.ObjectID) string {
	return "event_" + eventID.Hex()
}

type Store struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		rooms:    db.Collection(RoomsCollection),
		messages: db.Collection(MessagesCollection),
	}
}

// EnsureRoom creates the event's chat room if it does not exist yet,
// starting with the given participants. An existing room is left untouched,
// including its participant list. Reports whether this call created it.
func (s *Store) EnsureRoom(ctx context.Context, eventID primitive.ObjectID, participants []primitive.ObjectID) (bool, error) {
	if participants == nil {
		participants = []primitive.ObjectID{}
	}
	return ensure.Exists(ctx, s.rooms, RoomID(eventID), bson.M{
		"event_id":      eventID,
		"participants":  participants,
		"is_event_chat": true,
	})
}

// GetRoom loads a room by its derived id.
func (s *Store) GetRoom(ctx context.Context, roomID string) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	if err != nil {
		return models.ChatRoom{}, err
	}
	return room, nil
}

// AddParticipant adds userID to the room's participant set. Missing room is
// not an error; registration treats chat membership as best-effort.
func (s *Store) AddParticipant(ctx context.Context, roomID string, userID primitive.ObjectID) error {
	_, err := s.rooms.UpdateOne(ctx, bson.M{"_id": roomID},
		bson.M{"$addToSet": bson.M{"participants": userID}})
	return err
}

// RemoveParticipant removes userID from the room's participant set.
func (s *Store) RemoveParticipant(ctx context.Context, roomID string, userID primitive.ObjectID) error {
	_, err := s.rooms.UpdateOne(ctx, bson.M{"_id": roomID},
		bson.M{"$pull": bson.M{"participants": userID}})
	return err
}

// ReplaceParticipants overwrites the room's participant set with exactly
// want. This is the reconciliation path for participant drift.
func (s *Store) ReplaceParticipants(ctx context.Context, roomID string, want []primitive.ObjectID) error {
	if want == nil {
		want = []primitive.ObjectID{}
	}
	res, err := s.rooms.UpdateOne(ctx, bson.M{"_id": roomID},
		bson.M{"$set": bson.M{"participants": want}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// CreateMessage stores a message with its body sanitized to plain text.
func (s *Store) CreateMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	msg.ID = primitive.NewObjectID()
	msg.Body = bodyPolicy.Sanitize(msg.Body)
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// ListMessageIDs returns the ids of every message in the room, oldest first.
// Event deletion uses this to queue per-document deletes through the batch
// coordinator instead of an unbounded DeleteMany.
func (s *Store) ListMessageIDs(ctx context.Context, roomID string) ([]primitive.ObjectID, error) {
	cur, err := s.messages.Find(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// CountMessages returns the number of messages in the room.
func (s *Store) CountMessages(ctx context.Context, roomID string) (int64, error) {
	return s.messages.CountDocuments(ctx, bson.M{"room_id": roomID})
}
