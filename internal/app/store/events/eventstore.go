// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the events collection name, exported so the cascade package
// can queue batch mutations against it.
const Collection = "events"

var ErrEventNotFound = errors.New("event not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Create(ctx context.Context, event models.Event) (models.Event, error) {
	now := time.Now().UTC()
	event.ID = primitive.NewObjectID()
	event.TitleCI = text.Fold(event.Title)
	event.CreatedAt = now
	event.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var event models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// ListByOrganization returns events owned by orgID, newest first.
func (s *Store) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SetApprovedApplicant mirrors an approved application into the event's
// approved_applicants set.
func (s *Store) SetApprovedApplicant(ctx context.Context, eventID, volunteerID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$addToSet": bson.M{"approved_applicants": volunteerID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes an event by ID. Returns the number of documents deleted (0 or 1).
// Cascading cleanup of registrants, chat, and notifications is the cascade
// package's job; this is the raw single-document delete.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
