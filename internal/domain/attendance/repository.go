package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. The write
// methods are single-statement conditional updates so that the "one open
// record per employee" and "review happens once" invariants hold under
// concurrent requests without explicit locking.
type AttendanceRepository interface {
	// CheckIn inserts a new open record iff no open record exists for the
	// employee. Returns ErrAlreadyCheckedIn when the guard fails.
	CheckIn(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByID retrieves a record, ErrRecordNotFound if missing.
	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// GetOpenSession returns the employee's most recent open record by
	// check-in time. Returns ErrNoActiveCheckIn when none exists.
	GetOpenSession(ctx context.Context, employeeID string) (AttendanceRecord, error)

	// CloseSession closes the record iff it is still open (compare-and-swap
	// on check_out_time IS NULL). Returns ErrNoActiveCheckIn if the record
	// was concurrently closed.
	CloseSession(ctx context.Context, id string, checkOutTime time.Time, photoURL string, totalHours float64) (AttendanceRecord, error)

	// ApplyReview finalizes the approval status iff it is still pending.
	// Returns ErrRecordNotFound if the id does not exist, ErrAlreadyReviewed
	// if a decision was already applied.
	ApplyReview(ctx context.Context, id string, decision ApprovalStatus, reason *string, reviewedBy string, reviewedAt time.Time) (AttendanceRecord, error)

	// List retrieves records matching the filter, newest check-in first.
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)

	// SiteDigest aggregates pending-approval and open-session counts per site.
	SiteDigest(ctx context.Context) ([]SiteActivity, error)

	// FindStaleOpenSessions returns open records checked in before the cutoff.
	FindStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error)
}
