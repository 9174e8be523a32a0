// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization owns events and carries a denormalized follower list.
//
// FollowerCount is maintained by counter increment/decrement rather than
// recomputation from Followers, so the two can drift transiently under
// concurrent writes; they must converge, and the count never goes negative
// (decrements clamp at zero).
type Organization struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Name          string               `bson:"name"`
	NameCI        string               `bson:"name_ci"` // ← always stored
	Description   string               `bson:"description,omitempty"`
	Followers     []primitive.ObjectID `bson:"followers,omitempty"`
	FollowerCount int                  `bson:"follower_count"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// HasFollower reports whether userID is in the follower set.
func (o Organization) HasFollower(userID primitive.ObjectID) bool {
	for _, id := range o.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// Follow is one follower edge, recorded alongside the denormalized
// Organization.Followers array. Edge documents carry the timestamp used for
// follower recency statistics.
type Follow struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	CreatedAt      time.Time          `bson:"created_at"`
}
