// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// Routes mounts all event API routes under the base path
// (typically "/events" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/register", h.HandleRegister)
	r.Post("/{id}/unregister", h.HandleUnregister)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/volunteers/{uid}/remove", h.HandleRemoveVolunteer)
	r.Post("/{id}/chat/sync", h.HandleSyncChat)
	r.Post("/applications/{aid}/decide", h.HandleDecideApplication)

	return r
}
