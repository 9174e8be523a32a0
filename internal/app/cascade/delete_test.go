package cascade_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/voluhub/internal/app/cascade"
	applicationstore "github.com/dalemusser/voluhub/internal/app/store/applications"
	chatstore "github.com/dalemusser/voluhub/internal/app/store/chat"
	eventstore "github.com/dalemusser/voluhub/internal/app/store/events"
	notificationstore "github.com/dalemusser/voluhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/voluhub/internal/app/store/users"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/dalemusser/voluhub/internal/domain/models"
	"github.com/dalemusser/voluhub/internal/testutil"
)

func TestDeleteEventWithCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	org := fx.CreateOrganization(ctx, "Coastal Guard")
	volX := fx.CreateVolunteer(ctx, "Vol X")
	volY := fx.CreateVolunteer(ctx, "Vol Y")
	event := fx.CreateEvent(ctx, "Beach Sweep", org.ID, testutil.EventOptions{WithChat: true})
	fx.RegisterVolunteer(ctx, event.ID, volX.ID)
	fx.RegisterVolunteer(ctx, event.ID, volY.ID)

	roomID := chatstore.RoomID(event.ID)
	fx.CreateChatRoom(ctx, event.ID, []primitive.ObjectID{org.ID, volX.ID, volY.ID})
	fx.CreateChatMessage(ctx, roomID, volX.ID, "see everyone saturday")
	fx.CreateChatMessage(ctx, roomID, volY.ID, "bringing gloves")

	fx.CreateNotification(ctx, volX.ID, event.ID.Hex())
	fx.CreateNotification(ctx, volY.ID, roomID)
	fx.CreateActivity(ctx, volX.ID, event.ID.Hex())

	if _, err := db.Collection(applicationstore.Collection).InsertOne(ctx, models.Application{
		ID:          primitive.NewObjectID(),
		EventID:     event.ID,
		VolunteerID: volX.ID,
		Status:      models.ApplicationApproved,
	}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.DeleteEventWithCleanup(ctx, event.ID, org.ID, org.ID)
	if err != nil {
		t.Fatalf("DeleteEventWithCleanup: %v", err)
	}

	if !res.EventDeleted {
		t.Error("EventDeleted = false")
	}
	if !res.ChatRoomDeleted {
		t.Error("ChatRoomDeleted = false")
	}
	if res.MessagesDeleted != 2 {
		t.Errorf("MessagesDeleted = %d, want 2", res.MessagesDeleted)
	}
	if res.UsersUpdated != 2 {
		t.Errorf("UsersUpdated = %d, want 2", res.UsersUpdated)
	}
	if res.NotificationsDeleted != 2 {
		t.Errorf("NotificationsDeleted = %d, want 2", res.NotificationsDeleted)
	}
	if res.ActivitiesDeleted != 1 {
		t.Errorf("ActivitiesDeleted = %d, want 1", res.ActivitiesDeleted)
	}
	if res.ApplicationsDeleted != 1 {
		t.Errorf("ApplicationsDeleted = %d, want 1", res.ApplicationsDeleted)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v, want none", res.Errors)
	}

	// Nothing referencing the event survives.
	for coll, filter := range map[string]bson.M{
		eventstore.Collection:             {"_id": event.ID},
		chatstore.RoomsCollection:         {"_id": roomID},
		chatstore.MessagesCollection:      {"room_id": roomID},
		notificationstore.Collection:      {"related_entity": bson.M{"$in": bson.A{event.ID.Hex(), roomID}}},
		notificationstore.ActivitiesCollection: {"related_entity": event.ID.Hex()},
		applicationstore.Collection:       {"event_id": event.ID},
	} {
		if n := countDocs(ctx, t, db, coll, filter); n != 0 {
			t.Errorf("%s still holds %d referencing documents", coll, n)
		}
	}

	// Both volunteers lost the back-reference but keep their accounts.
	for _, volID := range []primitive.ObjectID{volX.ID, volY.ID} {
		var u struct {
			RegisteredEvents []primitive.ObjectID `bson:"registered_events"`
		}
		if err := db.Collection(userstore.Collection).FindOne(ctx, bson.M{"_id": volID}).Decode(&u); err != nil {
			t.Fatalf("user %s deleted by cascade: %v", volID.Hex(), err)
		}
		if containsID(u.RegisteredEvents, event.ID) {
			t.Errorf("user %s still references the deleted event", volID.Hex())
		}
	}
}

func TestDeleteEventWithCleanup_NoChatNoExtras(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	org := fx.CreateOrganization(ctx, "Garden Club")
	event := fx.CreateEvent(ctx, "Seedling Swap", org.ID, testutil.EventOptions{})

	res, err := svc.DeleteEventWithCleanup(ctx, event.ID, org.ID, org.ID)
	if err != nil {
		t.Fatalf("DeleteEventWithCleanup: %v", err)
	}
	if !res.EventDeleted {
		t.Error("EventDeleted = false")
	}
	if res.MessagesDeleted != 0 || res.UsersUpdated != 0 || res.ApplicationsDeleted != 0 {
		t.Errorf("tally = %+v, want zeros for an event with no references", res)
	}
}

func TestDeleteEventWithCleanup_RerunRepairsInterruptedCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	org := fx.CreateOrganization(ctx, "Trail Crew")
	volA := fx.CreateVolunteer(ctx, "Vol A")
	volB := fx.CreateVolunteer(ctx, "Vol B")
	event := fx.CreateEvent(ctx, "Switchback Repair", org.ID, testutil.EventOptions{})
	fx.RegisterVolunteer(ctx, event.ID, volA.ID)
	fx.RegisterVolunteer(ctx, event.ID, volB.ID)

	// Simulate an interrupted cascade: one user's back-reference was already
	// pulled but the event document survived. Because user cleanup runs
	// before the event delete, a re-run still finds the volunteer list and
	// the idempotent pulls repeat without error.
	if _, err := db.Collection(userstore.Collection).UpdateOne(ctx,
		bson.M{"_id": volA.ID},
		bson.M{"$pull": bson.M{"registered_events": event.ID}}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.DeleteEventWithCleanup(ctx, event.ID, org.ID, org.ID)
	if err != nil {
		t.Fatalf("DeleteEventWithCleanup: %v", err)
	}
	if !res.EventDeleted {
		t.Error("EventDeleted = false")
	}
	if res.UsersUpdated != 2 {
		t.Errorf("UsersUpdated = %d, want 2", res.UsersUpdated)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v, want none", res.Errors)
	}
	for _, volID := range []primitive.ObjectID{volA.ID, volB.ID} {
		var u struct {
			RegisteredEvents []primitive.ObjectID `bson:"registered_events"`
		}
		if err := db.Collection(userstore.Collection).FindOne(ctx, bson.M{"_id": volID}).Decode(&u); err != nil {
			t.Fatal(err)
		}
		if containsID(u.RegisteredEvents, event.ID) {
			t.Errorf("user %s still references the deleted event", volID.Hex())
		}
	}
}

func TestDeleteEventWithCleanup_RequesterNotOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	org := fx.CreateOrganization(ctx, "Owner Org")
	vol := fx.CreateVolunteer(ctx, "Nosy Volunteer")
	event := fx.CreateEvent(ctx, "Private Event", org.ID, testutil.EventOptions{})
	fx.RegisterVolunteer(ctx, event.ID, vol.ID)

	_, err := svc.DeleteEventWithCleanup(ctx, event.ID, org.ID, vol.ID)
	if storeerr.ClassOf(err) != storeerr.PermissionDenied {
		t.Fatalf("err = %v, want PermissionDenied", err)
	}

	// The denial happened before any write.
	if n := countDocs(ctx, t, db, eventstore.Collection, bson.M{"_id": event.ID}); n != 1 {
		t.Error("event deleted despite denied request")
	}
	got, err2 := eventByID(ctx, db, event.ID)
	if err2 != nil {
		t.Fatal(err2)
	}
	if !got.IsRegistered(vol.ID) {
		t.Error("membership mutated despite denied request")
	}
}

func TestDeleteEventWithCleanup_WrongOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	owner := fx.CreateOrganization(ctx, "Real Owner")
	other := fx.CreateOrganization(ctx, "Other Org")
	event := fx.CreateEvent(ctx, "Owned Event", owner.ID, testutil.EventOptions{})

	// The other org passes its own id for both; ownership is still checked
	// against the event document.
	_, err := svc.DeleteEventWithCleanup(ctx, event.ID, other.ID, other.ID)
	if storeerr.ClassOf(err) != storeerr.PermissionDenied {
		t.Fatalf("err = %v, want PermissionDenied", err)
	}
	if n := countDocs(ctx, t, db, eventstore.Collection, bson.M{"_id": event.ID}); n != 1 {
		t.Error("event deleted by non-owner")
	}
}

func TestDeleteEventWithCleanup_MissingEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db)

	org := fx.CreateOrganization(ctx, "Any Org")
	_, err := svc.DeleteEventWithCleanup(ctx, primitive.NewObjectID(), org.ID, org.ID)
	if storeerr.ClassOf(err) != storeerr.NotFound {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestDeleteEventWithCleanup_CustomImageWithoutBlobStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := newService(db) // nil blob store

	org := fx.CreateOrganization(ctx, "Gallery Org")
	event := fx.CreateEvent(ctx, "Art Fair", org.ID, testutil.EventOptions{HasCustomImage: true})

	res, err := svc.DeleteEventWithCleanup(ctx, event.ID, org.ID, org.ID)
	if err != nil {
		t.Fatalf("DeleteEventWithCleanup: %v", err)
	}
	if !res.EventDeleted {
		t.Error("EventDeleted = false")
	}
	if res.ImageDeleted {
		t.Error("ImageDeleted = true with no blob store")
	}
	if len(res.Errors) == 0 {
		t.Error("missing blob store not recorded in Errors")
	}
}

func TestImagePath(t *testing.T) {
	id := primitive.NewObjectID()
	want := "events/" + id.Hex() + "/image"
	if got := cascade.ImagePath(id); got != want {
		t.Errorf("ImagePath = %q, want %q", got, want)
	}
}
