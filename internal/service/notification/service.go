package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.NotificationRepository
	hub    *sse.Hub
	logger *slog.Logger
	config Config

	queue  chan notification.Notification
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub, logger *slog.Logger, cfg Config) notification.NotificationService {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		logger: logger,
		config: cfg,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("notification service started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Duration("flush_interval", cfg.FlushInterval),
	)

	return s
}

// worker batches queued notifications and flushes them on size or interval.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			s.logger.Error("failed to batch insert notifications",
				slog.Int("worker", id), slog.Any("error", err))
		} else {
			for _, n := range batch {
				s.hub.Publish(n.UserID, sse.Event{
					UserID: n.UserID,
					Event:  "notification",
					Data:   toResponse(n),
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			flush()
			return
		}
	}
}

// Notify implements notification.NotificationService.
func (s *service) Notify(ctx context.Context, userID string, notificationType notification.NotificationType, title, message string) error {
	n := notification.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	select {
	case s.queue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, insert directly
		return s.directInsert(ctx, n)
	}
}

// NotifyMany implements notification.NotificationService.
func (s *service) NotifyMany(ctx context.Context, userIDs []string, notificationType notification.NotificationType, title, message string) error {
	for _, userID := range userIDs {
		if err := s.Notify(ctx, userID, notificationType, title, message); err != nil {
			s.logger.Error("failed to queue notification",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return nil
}

// directInsert inserts a notification synchronously when the queue is full.
func (s *service) directInsert(ctx context.Context, n notification.Notification) error {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return err
	}

	s.hub.Publish(created.UserID, sse.Event{
		UserID: created.UserID,
		Event:  "notification",
		Data:   toResponse(created),
	})

	return nil
}

func toResponse(n notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// List implements notification.NotificationService.
func (s *service) List(ctx context.Context, userID string, limit int) (notification.ListNotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return notification.ListNotificationResponse{
		UnreadCount:   unread,
		Notifications: responses,
	}, nil
}

// MarkRead implements notification.NotificationService.
func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead implements notification.NotificationService.
func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Subscribe implements notification.NotificationService.
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					out <- notification.SSEEvent{
						Event: event.Event,
						Data:  resp,
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued notifications and stops the workers.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("notification service stopped")
}
