package notification

type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type ListNotificationResponse struct {
	UnreadCount   int64                  `json:"unread_count"`
	Notifications []NotificationResponse `json:"notifications"`
}
