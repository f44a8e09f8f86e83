package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/engagement"
)

// maxCommentBody bounds comment request bodies
const maxCommentBody = 100 * 1024

// CreateCommentHandler handles comment creation requests
type CreateCommentHandler struct {
	service engagement.Service
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service engagement.Service) *CreateCommentHandler {
	return &CreateCommentHandler{service: service}
}

// CommentInput is the request body for creating or editing a comment
type CommentInput struct {
	Body string `json:"body"`
}

// HandleCreate appends a comment to a post
// POST /api/post/{postID}/comment
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBody)

	var input CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	postID := chi.URLParam(r, "postID")

	comment, err := h.service.AddComment(r.Context(), postID, identity.UserID, input.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, comment)
}
