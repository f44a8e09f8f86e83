package routes

import (
	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/comment"
	engagementhandler "Quill/internal/api/handlers/engagement"
	"Quill/internal/core/engagement"
)

// RegisterEngagementRoutes registers the reaction and comment endpoints,
// nested under the post they engage with.
func RegisterEngagementRoutes(r chi.Router, service engagement.Service) {
	likeHandler := engagementhandler.NewLikeHandler(service)
	unlikeHandler := engagementhandler.NewUnlikeHandler(service)
	favoriteHandler := engagementhandler.NewFavoriteHandler(service)

	createComment := comment.NewCreateCommentHandler(service)
	updateComment := comment.NewUpdateCommentHandler(service)
	deleteComment := comment.NewDeleteCommentHandler(service)
	getComments := comment.NewGetCommentsHandler(service)

	r.Post("/api/post/{postID}/like", likeHandler.HandleLike)
	r.Post("/api/post/{postID}/unlike", unlikeHandler.HandleUnlike)
	r.Post("/api/post/{postID}/favorite", favoriteHandler.HandleToggleFavorite)

	r.Get("/api/post/{postID}/comments", getComments.HandleGet)
	r.Post("/api/post/{postID}/comment", createComment.HandleCreate)
	r.Patch("/api/post/{postID}/comment/{commentID}", updateComment.HandleUpdate)
	r.Delete("/api/post/{postID}/comment/{commentID}", deleteComment.HandleDelete)
}
