// internal/app/system/ensure/ensure.go

// Package ensure guarantees a referenced document exists before a cascading
// update touches it. The create is conditional ($setOnInsert under an
// upsert), so a document created concurrently by another actor is never
// clobbered; only the first-create race is last-writer-wins, and both
// writers insert the same system fields.
package ensure

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Exists makes sure the document with _id == id exists in c, inserting
// defaults merged with system fields (id echo, created_at) if absent.
// Reports whether this call created the document. At most one write.
//
// Callers must treat a failure here as mandatory: a downstream update after
// a failed bootstrap would silently target a missing document.
func Exists(ctx context.Context, c *mongo.Collection, id interface{}, defaults bson.M) (bool, error) {
	insert := bson.M{
		"_id":        id,
		"created_at": time.Now().UTC(),
	}
	for k, v := range defaults {
		if k == "_id" || k == "created_at" {
			continue
		}
		insert[k] = v
	}

	res, err := c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": insert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
