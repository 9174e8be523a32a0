// internal/app/features/events/handler.go
package events

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

// Handler is the feature-level entry point for event API endpoints. All
// mutations go through the cascade service so cross-collection bookkeeping
// stays in one place.
type Handler struct {
	Cascade *cascade.Service
	Log     *zap.Logger
}

// NewHandler constructs an events Handler bound to the cascade service.
func NewHandler(svc *cascade.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Cascade: svc,
		Log:     logger,
	}
}

// actorRequest is the JSON body for registration endpoints.
type actorRequest struct {
	UserID string `json:"user_id"`
}

// orgActionRequest is the JSON body for organization-initiated endpoints.
type orgActionRequest struct {
	OrganizationID string `json:"organization_id"`
	RequesterID    string `json:"requester_id"`
}

// decideRequest is the JSON body for the application decision endpoint.
type decideRequest struct {
	OrganizationID string `json:"organization_id"`
	RequesterID    string `json:"requester_id"`
	Status         string `json:"status"`
}

func pathID(r *http.Request, key string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	if err != nil {
		return primitive.NilObjectID, storeerr.New(storeerr.InvalidArgument, "The URL does not contain a valid id.")
	}
	return id, nil
}

func bodyID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, storeerr.New(storeerr.InvalidArgument, "The request body needs a valid "+what+".")
	}
	return id, nil
}

// HandleRegister handles POST /events/{id}/register.
// Registers the volunteer on both sides of the relationship and adds them to
// the event chat room, creating the room if it does not exist yet.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req actorRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	userID, err := bodyID(req.UserID, "user_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event register")
	defer cancel()

	res, err := h.Cascade.RegisterForEvent(ctx, eventID, userID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleUnregister handles POST /events/{id}/unregister.
// Unregistering a volunteer who is not registered is a no-op, not an error.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req actorRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	userID, err := bodyID(req.UserID, "user_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event unregister")
	defer cancel()

	res, err := h.Cascade.UnregisterFromEvent(ctx, eventID, userID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleDelete handles DELETE /events/{id}.
// Deletes the event and cleans up everything that references it: chat room
// and messages, registered-event lists, notifications, activities,
// applications, and the event image.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req orgActionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	orgID, err := bodyID(req.OrganizationID, "organization_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	requesterID, err := bodyID(req.RequesterID, "requester_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "event delete cleanup")
	defer cancel()

	res, err := h.Cascade.DeleteEventWithCleanup(ctx, eventID, orgID, requesterID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleRemoveVolunteer handles POST /events/{id}/volunteers/{uid}/remove.
// Organization-initiated removal; mirrors unregistration but requires the
// requester to be the owning organization.
func (h *Handler) HandleRemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	volunteerID, err := pathID(r, "uid")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req orgActionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	orgID, err := bodyID(req.OrganizationID, "organization_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	requesterID, err := bodyID(req.RequesterID, "requester_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "volunteer removal")
	defer cancel()

	res, err := h.Cascade.RemoveVolunteerFromEvent(ctx, eventID, volunteerID, orgID, requesterID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleDecideApplication handles POST /events/applications/{aid}/decide.
// Approves or rejects a pending application; an approval mirrors the
// applicant onto the event's approved list.
func (h *Handler) HandleDecideApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "aid")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req decideRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	orgID, err := bodyID(req.OrganizationID, "organization_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	requesterID, err := bodyID(req.RequesterID, "requester_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "application decision")
	defer cancel()

	res, err := h.Cascade.DecideApplication(ctx, applicationID, orgID, requesterID, req.Status)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}

// HandleSyncChat handles POST /events/{id}/chat/sync.
// Reconciles the chat room participant list against the registered
// volunteers plus the owning organization.
func (h *Handler) HandleSyncChat(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	var req orgActionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	orgID, err := bodyID(req.OrganizationID, "organization_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	requesterID, err := bodyID(req.RequesterID, "requester_id")
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "chat participant sync")
	defer cancel()

	res, err := h.Cascade.SyncChatParticipants(ctx, eventID, orgID, requesterID)
	if err != nil {
		apiutil.WriteError(w, h.Log, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, res)
}
