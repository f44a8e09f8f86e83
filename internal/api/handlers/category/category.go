package category

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/authz"
	"Quill/internal/core/categories"
)

// CategoryHandler serves the category endpoints
type CategoryHandler struct {
	service categories.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service categories.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// HandleList returns all categories. Public.
// GET /api/category
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if list == nil {
		list = []*categories.Category{}
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

type createInput struct {
	Name string `json:"category"`
}

// HandleCreate adds a category. Authenticated callers only.
// POST /api/category
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)

	var input createInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	created, err := h.service.Create(r.Context(), identity, input.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")

	case errors.Is(err, categories.ErrNameRequired):
		handlers.WriteValidation(w, "Validation failed.", []string{"category name is required"})

	case errors.Is(err, categories.ErrCategoryExists):
		handlers.WriteMessage(w, http.StatusConflict, "Category already exists.")

	case errors.Is(err, categories.ErrCategoryNotFound):
		handlers.WriteMessage(w, http.StatusNotFound, "Category not found.")

	default:
		log.Printf("Unexpected error in category handler: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}
