// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateVolunteer creates a test volunteer user.
func (f *Fixtures) CreateVolunteer(ctx context.Context, fullName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Role:       models.RoleVolunteer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test volunteer: %v", err)
	}
	return user
}

// EventOptions tweaks CreateEvent. Zero values get sensible defaults:
// capacity 10, date one week out.
type EventOptions struct {
	MaxVolunteers  int
	WithChat       bool
	HasCustomImage bool
	Date           time.Time
}

// CreateEvent creates a test event owned by orgID.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, orgID primitive.ObjectID, opts EventOptions) models.Event {
	f.t.Helper()

	if opts.MaxVolunteers == 0 {
		opts.MaxVolunteers = 10
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now().UTC().AddDate(0, 0, 7)
	}

	now := time.Now().UTC()
	event := models.Event{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		TitleCI:        text.Fold(title),
		Date:           opts.Date,
		MaxVolunteers:  opts.MaxVolunteers,
		WithChat:       opts.WithChat,
		HasCustomImage: opts.HasCustomImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateChatRoom creates the chat room for an event with the given
// participants.
func (f *Fixtures) CreateChatRoom(ctx context.Context, eventID primitive.ObjectID, participants []primitive.ObjectID) models.ChatRoom {
	f.t.Helper()

	room := models.ChatRoom{
		ID:           "event_" + eventID.Hex(),
		EventID:      eventID,
		Participants: participants,
		IsEventChat:  true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("chat_rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test chat room: %v", err)
	}
	return room
}

// CreateChatMessage creates one message in the given room.
func (f *Fixtures) CreateChatMessage(ctx context.Context, roomID string, senderID primitive.ObjectID, body string) models.ChatMessage {
	f.t.Helper()

	msg := models.ChatMessage{
		ID:       primitive.NewObjectID(),
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("chat_messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test chat message: %v", err)
	}
	return msg
}

// CreateNotification creates a notification referencing the given entity.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, related string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Kind:          "event_update",
		RelatedEntity: related,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

// CreateActivity creates an activity record referencing the given entity.
func (f *Fixtures) CreateActivity(ctx context.Context, userID primitive.ObjectID, related string) models.Activity {
	f.t.Helper()

	a := models.Activity{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Kind:          "event_registered",
		RelatedEntity: related,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("activities").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}
	return a
}

// RegisterVolunteer wires both sides of a registration directly, bypassing
// the cascade service, for tests that need pre-existing state.
func (f *Fixtures) RegisterVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) {
	f.t.Helper()

	if _, err := f.db.Collection("events").UpdateByID(ctx, eventID,
		bson.M{"$addToSet": bson.M{"registered_volunteers": userID}}); err != nil {
		f.t.Fatalf("failed to register volunteer on event: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, userID,
		bson.M{"$addToSet": bson.M{"registered_events": eventID}}); err != nil {
		f.t.Fatalf("failed to register event on user: %v", err)
	}
}
