// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses. An application is created pending, transitioned at
// most once by an organization action, and its terminal states are never
// mutated again by this subsystem.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application is a volunteer's request to join an event.
type Application struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EventID     primitive.ObjectID `bson:"event_id"`
	VolunteerID primitive.ObjectID `bson:"volunteer_id"`
	Status      string             `bson:"status"`
	Message     string             `bson:"message,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	DecidedAt   *time.Time         `bson:"decided_at,omitempty"`
}
