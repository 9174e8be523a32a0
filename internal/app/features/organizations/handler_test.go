package organizations_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/voluhub/internal/app/cascade"
	organizationsfeature "github.com/dalemusser/voluhub/internal/app/features/organizations"
	"github.com/dalemusser/voluhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(db *mongo.Database) chi.Router {
	svc := cascade.New(db, nil, nil, zap.NewNop())
	return organizationsfeature.Routes(organizationsfeature.NewHandler(svc, zap.NewNop()))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func TestHandleFollow_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	org := f.CreateOrganization(ctx, "Shore Friends")
	user := f.CreateVolunteer(ctx, "Casey Morgan")

	router := newRouter(db)
	req := httptest.NewRequest("POST", "/"+org.ID.Hex()+"/follow",
		jsonBody(t, map[string]string{"user_id": user.ID.Hex()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var res cascade.FollowResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !res.Following {
		t.Error("expected following=true")
	}

	count, err := db.Collection("organizations").CountDocuments(ctx,
		bson.M{"_id": org.ID, "followers": user.ID})
	if err != nil || count != 1 {
		t.Errorf("follower not recorded on organization (count=%d, err=%v)", count, err)
	}
}

func TestHandleFollow_SelfFollow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	org := f.CreateOrganization(ctx, "Shore Friends")

	router := newRouter(db)
	req := httptest.NewRequest("POST", "/"+org.ID.Hex()+"/follow",
		jsonBody(t, map[string]string{"user_id": org.ID.Hex()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleFollow_OrganizationNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateVolunteer(ctx, "Casey Morgan")

	router := newRouter(db)
	req := httptest.NewRequest("POST", "/"+primitive.NewObjectID().Hex()+"/follow",
		jsonBody(t, map[string]string{"user_id": user.ID.Hex()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleUnfollow_NotFollowing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	org := f.CreateOrganization(ctx, "Shore Friends")
	user := f.CreateVolunteer(ctx, "Casey Morgan")

	router := newRouter(db)
	req := httptest.NewRequest("POST", "/"+org.ID.Hex()+"/unfollow",
		jsonBody(t, map[string]string{"user_id": user.ID.Hex()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleFollowerStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	org := f.CreateOrganization(ctx, "Shore Friends")
	user := f.CreateVolunteer(ctx, "Casey Morgan")

	router := newRouter(db)

	// Follow first so the stats have something to count
	req := httptest.NewRequest("POST", "/"+org.ID.Hex()+"/follow",
		jsonBody(t, map[string]string{"user_id": user.ID.Hex()}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("follow failed with status %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/"+org.ID.Hex()+"/follower_stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var stats cascade.FollowerStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if stats.FollowerCount != 1 {
		t.Errorf("follower_count: got %d, want 1", stats.FollowerCount)
	}
	if stats.Last7Days != 1 {
		t.Errorf("last_7_days: got %d, want 1", stats.Last7Days)
	}
}
