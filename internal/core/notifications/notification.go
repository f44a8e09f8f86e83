package notifications

import "time"

// Notification is the durable record created when a post is liked.
// It is written by the pipeline, read back newest-first, and mutated only
// by the bulk mark-read operation; this subsystem never deletes it.
type Notification struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	SenderID    string    `json:"sender"`
	RecipientID string    `json:"to"`
	Post        PostRef   `json:"post"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PostRef is the minimal projection of the related post carried on a
// notification.
type PostRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PushPayload is the ephemeral realtime payload, distinct from the durable
// record. DeliveryID is generated per delivery attempt and is not the
// persisted notification's id.
type PushPayload struct {
	DeliveryID string `json:"id"`
	Message    string `json:"message"`
	SenderID   string `json:"sender"`
	PostID     string `json:"postId"`
}
