// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/voluhub/internal/app/system/ensure"
	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the users collection name, exported for batch mutations.
const Collection = "users"

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a full user document. Used by registration flows and test
// fixtures; cascading operations use EnsureExists instead.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.FullNameCI = text.Fold(u.FullName)
	if u.Role == "" {
		u.Role = models.RoleVolunteer
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// AddFollowing adds orgID to the user's following set.
func (s *Store) AddFollowing(ctx context.Context, userID, orgID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"following": orgID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveFollowing removes orgID from the user's following set.
func (s *Store) RemoveFollowing(ctx context.Context, userID, orgID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"following": orgID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveRegisteredEvent removes eventID from the user's registered_events
// set. Used by event deletion, which cleans each formerly registered user
// individually so one failing user cannot abort the rest.
func (s *Store) RemoveRegisteredEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"registered_events": eventID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// EnsureExists bootstraps a minimal user document if none exists: role
// defaults to volunteer, membership sets start empty. Existing documents are
// never modified. Reports whether this call created the document.
func (s *Store) EnsureExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return ensure.Exists(ctx, s.c, id, bson.M{
		"role":              models.RoleVolunteer,
		"registered_events": []primitive.ObjectID{},
		"following":         []primitive.ObjectID{},
	})
}
