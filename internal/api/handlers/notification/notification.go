package notification

import (
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/notifications"
)

// NotificationHandler serves the recipient-facing notification endpoints
type NotificationHandler struct {
	service notifications.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service notifications.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// HandleList returns the caller's notifications, newest first
// GET /api/notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	list, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("Unexpected error listing notifications: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
		return
	}

	if list == nil {
		list = []*notifications.Notification{}
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleMarkAllRead bulk-marks the caller's notifications as read
// POST /api/notifications/mark-read
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), identity.UserID); err != nil {
		log.Printf("Unexpected error marking notifications read: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Notifications marked as read.",
	})
}
