// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleVolunteer    = "volunteer"
	RoleOrganization = "organization"
)

// User is a long-lived account document. This subsystem only ever patches
// users (registered_events, following); it never deletes them.
//
// A user document may be created lazily by the bootstrapper with only the
// system fields set, so every other field must tolerate its zero value.
type User struct {
	ID               primitive.ObjectID   `bson:"_id"`
	FullName         string               `bson:"full_name,omitempty"`
	FullNameCI       string               `bson:"full_name_ci,omitempty"`
	Email            string               `bson:"email,omitempty"`
	Role             string               `bson:"role,omitempty"` // "volunteer" | "organization"
	RegisteredEvents []primitive.ObjectID `bson:"registered_events,omitempty"`
	Following        []primitive.ObjectID `bson:"following,omitempty"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at,omitempty"`
}

// IsFollowing reports whether orgID is in the user's following set.
func (u User) IsFollowing(orgID primitive.ObjectID) bool {
	for _, id := range u.Following {
		if id == orgID {
			return true
		}
	}
	return false
}
