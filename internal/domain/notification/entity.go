package notification

import "time"

type NotificationType string

const (
	TypeAttendanceSubmitted NotificationType = "attendance_submitted"
	TypeAttendanceReviewed  NotificationType = "attendance_reviewed"
	TypeLeaveSubmitted      NotificationType = "leave_submitted"
	TypeLeaveDecided        NotificationType = "leave_decided"
	TypeStaleSession        NotificationType = "stale_session"
)

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
