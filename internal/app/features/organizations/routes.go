// internal/app/features/organizations/routes.go
package organizations

import "github.com/go-chi/chi/v5"

// Routes mounts all organization API routes under the base path
// (typically "/organizations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/follow", h.HandleFollow)
	r.Post("/{id}/unfollow", h.HandleUnfollow)
	r.Get("/{id}/follower_stats", h.HandleFollowerStats)

	return r
}
