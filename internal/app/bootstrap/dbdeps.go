// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	VoluHubMongoClient   *mongo.Client
	VoluHubMongoDatabase *mongo.Database

	// FileStore holds event images. Local disk or S3 depending on config.
	FileStore storage.Store
}
