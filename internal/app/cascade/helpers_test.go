package cascade_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	chatstore "github.com/dalemusser/voluhub/internal/app/store/chat"
	eventstore "github.com/dalemusser/voluhub/internal/app/store/events"
	"github.com/dalemusser/voluhub/internal/domain/models"
)

func eventByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	err := db.Collection(eventstore.Collection).FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	return ev, err
}

func roomByID(ctx context.Context, t *testing.T, db *mongo.Database, roomID string) models.ChatRoom {
	t.Helper()
	var room models.ChatRoom
	if err := db.Collection(chatstore.RoomsCollection).FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		t.Fatalf("chat room %s: %v", roomID, err)
	}
	return room
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func countDocs(ctx context.Context, t *testing.T, db *mongo.Database, coll string, filter bson.M) int64 {
	t.Helper()
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("count %s: %v", coll, err)
	}
	return n
}
