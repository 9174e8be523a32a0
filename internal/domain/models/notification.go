// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification and Activity are ephemeral documents keyed by the id of the
// entity they reference (an event id or chat room id). They are deleted as a
// side effect of primary-entity deletion and are never required to exist, so
// every operation touching them is best-effort.

type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	Kind          string             `bson:"kind"`
	RelatedEntity string             `bson:"related_entity"` // event id hex or chat room id
	Body          string             `bson:"body,omitempty"`
	Read          bool               `bson:"read"`
	CreatedAt     time.Time          `bson:"created_at"`
}

type Activity struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	Kind          string             `bson:"kind"`
	RelatedEntity string             `bson:"related_entity"`
	CreatedAt     time.Time          `bson:"created_at"`
}
