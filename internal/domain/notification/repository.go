package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
