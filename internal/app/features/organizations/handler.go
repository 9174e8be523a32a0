// internal/app/features/organizations/handler.go
package organizations

import (
	"net/http"

	"github.com/dalemusser/voluhub/internal/app/cascade"
	"github.com/dalemusser/voluhub/internal/app/system/apiutil"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/dalemusser/voluhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for organization API endpoints.
type Handler struct {
	Cascade *cascade.Service
	Log     *zap.Logger
}

// NewHandler constructs an organizations Handler bound to the cascade service.
func NewHandler(svc *cascade.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Cascade: svc,
		Log:     logger,
	}
}

// followRequest is the JSON body for follow and unfollow.
type followRequest struct {
	UserID string `json:"user_id"`
}

func pathOrgID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, storeerr.New(storeerr.InvalidArgument, "The URL does not contain a valid organization id.")
	}
	return id, nil
}

func parseUserID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, storeerr.New(storeerr.InvalidArgument, "The request body needs a valid user_id.")
	}
	return id, nil
}

// HandleFollow handles POST /organizations/{id}/follow.
// Records the relationship on both documents and bumps the follower counter.
func (h *Handler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathOrgID(r)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req followRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	userID, err := parseUserID(req.UserID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "organization follow")
	defer cancel()

	res, err := h.Cascade.FollowOrganization(ctx, userID, orgID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleUnfollow handles POST /organizations/{id}/unfollow.
// The follower counter never drops below zero, even on repeated unfollows.
func (h *Handler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathOrgID(r)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req followRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	userID, err := parseUserID(req.UserID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "organization unfollow")
	defer cancel()

	res, err := h.Cascade.UnfollowOrganization(ctx, userID, orgID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleFollowerStats handles GET /organizations/{id}/follower_stats.
// Buckets follow edges by age alongside the maintained follower counter.
func (h *Handler) HandleFollowerStats(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathOrgID(r)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "follower stats")
	defer cancel()

	stats, err := h.Cascade.OrganizationFollowerStats(ctx, orgID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, stats)
}
