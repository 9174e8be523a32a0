// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoom is keyed by a deterministic string id derived from the event id
// ("event_<hex>"), not an ObjectID, so any component can address a room
// without a lookup.
//
// Participants should match registered_volunteers ∪ {organization_id} of the
// owning event; drift is tolerated and corrected by the chat sync operation.
type ChatRoom struct {
	ID           string               `bson:"_id"`
	EventID      primitive.ObjectID   `bson:"event_id"`
	Participants []primitive.ObjectID `bson:"participants,omitempty"`
	IsEventChat  bool                 `bson:"is_event_chat"`
	CreatedAt    time.Time            `bson:"created_at"`
}

// ChatMessage is one message in a room. Messages are deleted in bulk when
// their event is deleted; nothing else in this subsystem mutates them.
type ChatMessage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	RoomID   string             `bson:"room_id"`
	SenderID primitive.ObjectID `bson:"sender_id"`
	Body     string             `bson:"body"`
	SentAt   time.Time          `bson:"sent_at"`
}
