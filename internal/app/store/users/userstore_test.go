package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	userstore "github.com/dalemusser/voluhub/internal/app/store/users"
	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/dalemusser/voluhub/internal/testutil"
)

func TestCreateAndGetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{
		FullName: "Jordan Reyes",
		Email:    "jordan@example.com",
		Role:     models.RoleVolunteer,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != "Jordan Reyes" || got.Role != models.RoleVolunteer {
		t.Errorf("GetByID returned %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := userstore.New(db).GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrUserNotFound) {
		t.Errorf("err = %v, want userstore.ErrUserNotFound", err)
	}
}

func TestFollowingRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u, err := store.Create(ctx, models.User{FullName: "Sam Okafor", Role: models.RoleVolunteer})
	if err != nil {
		t.Fatal(err)
	}
	orgID := primitive.NewObjectID()

	if err := store.AddFollowing(ctx, u.ID, orgID); err != nil {
		t.Fatal(err)
	}
	// Adding again keeps the set a set.
	if err := store.AddFollowing(ctx, u.ID, orgID); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Following) != 1 || !got.IsFollowing(orgID) {
		t.Fatalf("following = %v, want exactly [%s]", got.Following, orgID.Hex())
	}

	if err := store.RemoveFollowing(ctx, u.ID, orgID); err != nil {
		t.Fatal(err)
	}
	got, err = store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsFollowing(orgID) {
		t.Error("org still in following after remove")
	}
}

func TestAddFollowing_MissingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := userstore.New(db).AddFollowing(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrUserNotFound) {
		t.Errorf("err = %v, want userstore.ErrUserNotFound", err)
	}
}

func TestRemoveRegisteredEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	eventID := primitive.NewObjectID()
	u, err := store.Create(ctx, models.User{FullName: "Priya Nair", Role: models.RoleVolunteer})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Collection(userstore.Collection).UpdateByID(ctx, u.ID,
		bson.M{"$addToSet": bson.M{"registered_events": eventID}}); err != nil {
		t.Fatal(err)
	}

	if err := store.RemoveRegisteredEvent(ctx, u.ID, eventID); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.RegisteredEvents) != 0 {
		t.Errorf("registered_events = %v, want empty", got.RegisteredEvents)
	}

	// Pulling from a missing user is not an error; the cleanup must not
	// fail when a referenced user was never materialized.
	if err := store.RemoveRegisteredEvent(ctx, primitive.NewObjectID(), eventID); err != nil {
		t.Errorf("remove on missing user: %v", err)
	}
}

func TestEnsureExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	id := primitive.NewObjectID()

	created, err := store.EnsureExists(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("created = false on first ensure")
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != models.RoleVolunteer {
		t.Errorf("bootstrapped role = %q, want volunteer", got.Role)
	}

	created, err = store.EnsureExists(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("created = true on second ensure")
	}
}
