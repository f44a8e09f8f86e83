package routes

import (
	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/post"
	"Quill/internal/core/posts"
	"Quill/internal/images"
)

// RegisterPostRoutes registers the post CRUD and listing endpoints.
// Authentication is attached globally; handlers and services decide what
// anonymous callers may do.
func RegisterPostRoutes(r chi.Router, service posts.Service, store *images.DiskStore) {
	createHandler := post.NewCreatePostHandler(service, store)
	updateHandler := post.NewUpdatePostHandler(service, store)
	statusHandler := post.NewUpdateStatusHandler(service)
	deleteHandler := post.NewDeletePostHandler(service)
	getHandler := post.NewGetPostHandler(service)
	listHandler := post.NewListPostsHandler(service)

	// Static listing paths are registered alongside the {postID} wildcard;
	// the router prefers exact segments over parameters
	r.Get("/api/post", listHandler.HandleListPublic)
	r.Get("/api/post/all", listHandler.HandleListAll)
	r.Get("/api/post/mine", listHandler.HandleListPrivate)
	r.Get("/api/post/favorites", listHandler.HandleListFavorites)

	r.Post("/api/post", createHandler.HandleCreate)

	r.Get("/api/post/{postID}", getHandler.HandleGet)
	r.Patch("/api/post/{postID}", updateHandler.HandleUpdate)
	r.Patch("/api/post/{postID}/status", statusHandler.HandleUpdateStatus)
	r.Delete("/api/post/{postID}", deleteHandler.HandleDelete)
}
