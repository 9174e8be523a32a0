// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/voluhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the applications collection name.
const Collection = "applications"

var (
	ErrDuplicateApplication = errors.New("volunteer has already applied to this event")
	ErrAlreadyDecided       = errors.New("application has already been decided")
	ErrApplicationNotFound  = errors.New("application not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create files a pending application. One application per (event, volunteer)
// is enforced by a unique index.
func (s *Store) Create(ctx context.Context, app models.Application) (models.Application, error) {
	app.ID = primitive.NewObjectID()
	app.Status = models.ApplicationPending
	app.CreatedAt = time.Now().UTC()
	app.DecidedAt = nil
	if _, err := s.c.InsertOne(ctx, app); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrDuplicateApplication
		}
		return models.Application{}, err
	}
	return app, nil
}

// Decide transitions a pending application to approved or rejected. The
// filter requires status=pending so a terminal application is never
// re-decided; a second decision returns ErrAlreadyDecided.
func (s *Store) Decide(ctx context.Context, id primitive.ObjectID, status string) (models.Application, error) {
	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return models.Application{}, errors.New(`status must be "approved" or "rejected"`)
	}

	now := time.Now().UTC()
	var app models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ApplicationPending},
		bson.M{"$set": bson.M{"status": status, "decided_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&app)
	if err == mongo.ErrNoDocuments {
		// Either missing or already terminal; disambiguate for the caller.
		if cnt, cntErr := s.c.CountDocuments(ctx, bson.M{"_id": id}); cntErr == nil && cnt > 0 {
			return models.Application{}, ErrAlreadyDecided
		}
		return models.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// GetByID loads one application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var app models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return models.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// ListByEvent returns all applications for an event, oldest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Application, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ListIDsByEvent returns application ids for an event, for queueing deletes.
func (s *Store) ListIDsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID})
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
