package postgresql

import (
	"context"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// Create implements notification.NotificationRepository.
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`

	if _, err := q.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.CreatedAt); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// CreateBatch implements notification.NotificationRepository.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`
	for _, n := range notifications {
		batch.Queue(query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.CreatedAt)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create notification batch: %w", err)
		}
	}

	return nil
}

// ListByUser implements notification.NotificationRepository.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	if limit == 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// CountUnread implements notification.NotificationRepository.
func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`

	var count int64
	if err := q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead implements notification.NotificationRepository.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`

	tag, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead implements notification.NotificationRepository.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND is_read = false
	`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}
