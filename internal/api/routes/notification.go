package routes

import (
	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/notification"
	"Quill/internal/core/notifications"
	"Quill/internal/realtime"
)

// RegisterNotificationRoutes registers the notification read path and the
// realtime WebSocket endpoint.
func RegisterNotificationRoutes(r chi.Router, service notifications.Service, gateway *realtime.Gateway) {
	handler := notification.NewNotificationHandler(service)

	r.Get("/api/notifications", handler.HandleList)
	r.Post("/api/notifications/mark-read", handler.HandleMarkAllRead)

	r.Get("/ws", gateway.HandleWS)
}
