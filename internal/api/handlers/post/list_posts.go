package post

import (
	"net/http"
	"strconv"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/posts"
)

// ListPostsHandler serves the post listing endpoints
type ListPostsHandler struct {
	service posts.Service
}

// NewListPostsHandler creates a new list posts handler
func NewListPostsHandler(service posts.Service) *ListPostsHandler {
	return &ListPostsHandler{service: service}
}

// HandleListPublic returns public posts, newest first, paginated
// GET /api/post?page=1&size=20
func (h *ListPostsHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", posts.DefaultPageSize)

	list, err := h.service.ListPublic(r.Context(), page, size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleListAll returns every post regardless of visibility. Admin only.
// GET /api/post/all?category=...&search=...&page=1&size=20
func (h *ListPostsHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)

	opts := posts.ListOptions{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     queryInt(r, "page", 1),
		Size:     queryInt(r, "size", posts.DefaultPageSize),
	}

	list, err := h.service.ListAll(r.Context(), identity, opts)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleListPrivate returns the caller's own posts
// GET /api/post/mine
func (h *ListPostsHandler) HandleListPrivate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)

	list, err := h.service.ListPrivate(r.Context(), identity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if list == nil {
		list = []*posts.Post{}
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleListFavorites returns the caller's favorited posts
// GET /api/post/favorites
func (h *ListPostsHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)

	list, err := h.service.ListFavorites(r.Context(), identity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if list == nil {
		list = []*posts.Post{}
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// queryInt reads a positive integer query parameter with a fallback
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
