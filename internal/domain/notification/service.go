package notification

import "context"

// SSEEvent is what a subscribed client receives over the event stream.
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

// NotificationService persists notifications and pushes them to connected
// clients over SSE. Writes are queued and batch-inserted by background
// workers; Notify returns once the notification is accepted.
type NotificationService interface {
	Notify(ctx context.Context, userID string, notificationType NotificationType, title, message string) error
	NotifyMany(ctx context.Context, userIDs []string, notificationType NotificationType, title, message string) error
	List(ctx context.Context, userID string, limit int) (ListNotificationResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// Subscribe opens an SSE subscription for a user. The returned cleanup
	// must be called when the client disconnects.
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Stop flushes queued notifications and stops the workers.
	Stop()
}
