package routes

import (
	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/category"
	"Quill/internal/core/categories"
)

// RegisterCategoryRoutes registers the category endpoints
func RegisterCategoryRoutes(r chi.Router, service categories.Service) {
	handler := category.NewCategoryHandler(service)

	r.Get("/api/category", handler.HandleList)
	r.Post("/api/category", handler.HandleCreate)
}
