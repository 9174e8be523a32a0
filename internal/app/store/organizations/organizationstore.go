// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/voluhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names owned by this package. FollowsCollection holds one edge
// document per (user, organization) follow, timestamped for recency stats.
const (
	Collection        = "organizations"
	FollowsCollection = "follows"
)

var (
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
)

type Store struct {
	c       *mongo.Collection
	follows *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection(Collection),
		follows: db.Collection(FollowsCollection),
	}
}

func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.NameCI = text.Fold(org.Name)
	org.CreatedAt = now
	org.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrOrganizationNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// ApplyFollow adds userID to the follower set and bumps follower_count in
// one document update ($addToSet + $inc apply atomically to the document).
// The caller has already rejected no-op transitions, so the increment never
// double-counts an existing follower.
func (s *Store) ApplyFollow(ctx context.Context, orgID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, orgID, bson.M{
		"$addToSet": bson.M{"followers": userID},
		"$inc":      bson.M{"follower_count": 1},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

// ApplyUnfollow removes userID from the follower set and decrements
// follower_count, clamping at zero. The clamp uses a pipeline update so the
// subtraction and floor apply in the same atomic document write.
func (s *Store) ApplyUnfollow(ctx context.Context, orgID, userID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"followers": bson.M{"$filter": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$followers", bson.A{}}},
				"as":    "f",
				"cond":  bson.M{"$ne": bson.A{"$$f", userID}},
			}},
			"follower_count": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{
				bson.M{"$ifNull": bson.A{"$follower_count", 0}}, 1,
			}}}},
			"updated_at": time.Now().UTC(),
		}}},
	}
	res, err := s.c.UpdateByID(ctx, orgID, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

// RecordFollowEdge inserts the timestamped follow edge document. Duplicate
// edges (retried follow) are absorbed.
func (s *Store) RecordFollowEdge(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := s.follows.InsertOne(ctx, models.Follow{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		OrganizationID: orgID,
		CreatedAt:      time.Now().UTC(),
	})
	if wafflemongo.IsDup(err) {
		return nil
	}
	return err
}

// RemoveFollowEdge deletes the follow edge document for (orgID, userID).
func (s *Store) RemoveFollowEdge(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := s.follows.DeleteMany(ctx, bson.M{"organization_id": orgID, "user_id": userID})
	return err
}

// CountFollowsSince counts follow edges for orgID created at or after since.
func (s *Store) CountFollowsSince(ctx context.Context, orgID primitive.ObjectID, since time.Time) (int64, error) {
	return s.follows.CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"created_at":      bson.M{"$gte": since},
	})
}

// CountFollows counts all follow edges for orgID.
func (s *Store) CountFollows(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.follows.CountDocuments(ctx, bson.M{"organization_id": orgID})
}
