package attendance

import (
	"context"
)

// AttendanceService defines the check-in / check-out / review workflow.
type AttendanceService interface {
	// CheckIn opens a new attendance record for an employee on a site.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the employee's open record and computes total hours.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Review applies a project manager's approval or rejection. The reviewer
	// identity is taken from the authenticated context, never ambient state.
	Review(ctx context.Context, req ReviewRequest) (AttendanceResponse, error)

	// Get retrieves a single record by id.
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// List retrieves records with filters, newest check-in first.
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Status reports whether the employee currently has an open session.
	Status(ctx context.Context, employeeID string) (StatusResponse, error)

	// SummarizeBySite folds List results into per-employee aggregates for a site.
	SummarizeBySite(ctx context.Context, site string, startDate, endDate *string) (SummaryResponse, error)

	// SummarizeByEmployee folds List results into one employee's aggregate.
	SummarizeByEmployee(ctx context.Context, employeeID string, startDate, endDate *string) (SummaryResponse, error)
}
