// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/voluhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names owned by this package. Notifications and activities share
// the related_entity keying scheme and the same cleanup lifecycle, so one
// store covers both.
const (
	Collection           = "notifications"
	ActivitiesCollection = "activities"
)

type Store struct {
	notifications *mongo.Collection
	activities    *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		notifications: db.Collection(Collection),
		activities:    db.Collection(ActivitiesCollection),
	}
}

// CreateNotification stores one notification document.
func (s *Store) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := s.notifications.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// CreateActivity stores one activity document.
func (s *Store) CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := s.activities.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// NotificationIDsByRelatedEntity returns notification ids referencing the
// given entity (event id hex or chat room id), for queueing deletes.
func (s *Store) NotificationIDsByRelatedEntity(ctx context.Context, related ...string) ([]primitive.ObjectID, error) {
	return collectIDs(ctx, s.notifications, related)
}

// ActivityIDsByRelatedEntity returns activity ids referencing the given
// entity, for queueing deletes.
func (s *Store) ActivityIDsByRelatedEntity(ctx context.Context, related ...string) ([]primitive.ObjectID, error) {
	return collectIDs(ctx, s.activities, related)
}

// CountByRelatedEntity returns how many notifications reference the entity.
func (s *Store) CountByRelatedEntity(ctx context.Context, related string) (int64, error) {
	return s.notifications.CountDocuments(ctx, bson.M{"related_entity": related})
}

func collectIDs(ctx context.Context, c *mongo.Collection, related []string) ([]primitive.ObjectID, error) {
	if len(related) == 0 {
		return nil, nil
	}
	cur, err := c.Find(ctx, bson.M{"related_entity": bson.M{"$in": related}})
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
	return ids, cur.Err()
}
