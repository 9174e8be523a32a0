// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a volunteer event owned by an organization.
//
// RegisteredVolunteers and RegisteredEvents (on User) are kept in sync as a
// pair: for every user id in RegisteredVolunteers, that user's
// RegisteredEvents must contain this event's id. The cascade package is the
// only writer allowed to change either side.
//
// Missing-field defaults: a document written by an older client may lack any
// of the optional fields; zero values apply (empty registrant list, no chat,
// no custom image, MaxVolunteers 0 meaning no one can register).
type Event struct {
	ID                   primitive.ObjectID   `bson:"_id"`
	OrganizationID       primitive.ObjectID   `bson:"organization_id"`
	Title                string               `bson:"title"`
	TitleCI              string               `bson:"title_ci"` // ← always stored
	Description          string               `bson:"description,omitempty"`
	Location             string               `bson:"location,omitempty"`
	Date                 time.Time            `bson:"date"`
	MaxVolunteers        int                  `bson:"max_volunteers"`
	RegisteredVolunteers []primitive.ObjectID `bson:"registered_volunteers,omitempty"`
	ApprovedApplicants   []primitive.ObjectID `bson:"approved_applicants,omitempty"`
	WithChat             bool                 `bson:"with_chat"`
	ImageURL             string               `bson:"image_url,omitempty"`
	HasCustomImage       bool                 `bson:"has_custom_image"`
	CreatedAt            time.Time            `bson:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at"`
}

// HasCapacity reports whether another volunteer can register.
func (e Event) HasCapacity() bool {
	return len(e.RegisteredVolunteers) < e.MaxVolunteers
}

// HasOccurred reports whether the event date is in the past relative to now.
func (e Event) HasOccurred(now time.Time) bool {
	return e.Date.Before(now)
}

// IsRegistered reports whether userID is in the registered volunteer set.
func (e Event) IsRegistered(userID primitive.ObjectID) bool {
	for _, id := range e.RegisteredVolunteers {
		if id == userID {
			return true
		}
	}
	return false
}
