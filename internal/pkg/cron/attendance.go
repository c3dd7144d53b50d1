package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/email"
)

// staleSessionAge is how long a session may stay open before the digest jobs
// flag it. Sessions are never closed automatically, a project manager decides.
const staleSessionAge = 20 * time.Hour

type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	userRepo        user.UserRepository
	notificationSvc notification.NotificationService
	emailService    email.EmailService
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	notificationSvc notification.NotificationService,
	emailService email.EmailService,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailService:    emailService,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_daily_digest", 1*time.Hour, j.SendDailyDigest)
	scheduler.AddJob("flag_stale_open_sessions", 1*time.Hour, j.FlagStaleOpenSessions)
}

// SendDailyDigest emails every approver a per-site summary of pending
// approvals and open sessions.
func (j *AttendanceJobs) SendDailyDigest(ctx context.Context) error {
	// Only run at 18:00-18:59 UTC, once the workday is over
	if time.Now().UTC().Hour() != 18 {
		return nil
	}

	slog.Info("Cron: Starting attendance daily digest job")

	digest, err := j.attendanceRepo.SiteDigest(ctx)
	if err != nil {
		return fmt.Errorf("failed to build site digest: %w", err)
	}
	if len(digest) == 0 {
		slog.Info("Cron: No site activity to report")
		return nil
	}

	approvers, err := j.userRepo.GetApprovers(ctx)
	if err != nil {
		return fmt.Errorf("failed to get approvers: %w", err)
	}
	if len(approvers) == 0 {
		return nil
	}

	recipients := make([]string, 0, len(approvers))
	for _, approver := range approvers {
		recipients = append(recipients, approver.Email)
	}

	rows := make([]email.DigestRow, 0, len(digest))
	for _, activity := range digest {
		rows = append(rows, email.DigestRow{
			Site:            activity.Site,
			PendingApproval: activity.PendingApproval,
			OpenSessions:    activity.OpenSessions,
		})
	}

	date := time.Now().UTC().Format("2006-01-02")
	if err := j.emailService.SendAttendanceDigest(recipients, date, rows); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	slog.Info("Cron: Attendance digest sent", "recipients", len(recipients), "sites", len(rows))
	return nil
}

// FlagStaleOpenSessions notifies approvers about sessions left open for more
// than staleSessionAge, and nudges the employee to check out.
func (j *AttendanceJobs) FlagStaleOpenSessions(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-staleSessionAge)

	stale, err := j.attendanceRepo.FindStaleOpenSessions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to find stale open sessions: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	slog.Info("Cron: Found stale open sessions", "count", len(stale))

	approvers, err := j.userRepo.GetApprovers(ctx)
	if err != nil {
		return fmt.Errorf("failed to get approvers: %w", err)
	}
	approverIDs := make([]string, 0, len(approvers))
	for _, approver := range approvers {
		approverIDs = append(approverIDs, approver.ID)
	}

	for _, session := range stale {
		_ = j.notificationSvc.NotifyMany(ctx, approverIDs, notification.TypeStaleSession,
			"Stale open session",
			fmt.Sprintf("%s has been checked in at %s since %s",
				session.EmployeeName, session.Site, session.CheckInTime.Format(time.RFC3339)))

		emp, err := j.employeeRepo.GetByID(ctx, session.EmployeeID)
		if err != nil || emp.UserID == nil {
			continue
		}
		_ = j.notificationSvc.Notify(ctx, *emp.UserID, notification.TypeStaleSession,
			"Still checked in?",
			fmt.Sprintf("You checked in at %s on %s and never checked out",
				session.Site, session.CheckInTime.Format(time.RFC3339)))
	}

	return nil
}
