package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ApplyDecision finalizes the status iff it is still waiting_approval.
	// Returns ErrLeaveRequestNotFound when the id does not exist,
	// ErrLeaveAlreadyProcessed when a decision was already applied.
	ApplyDecision(ctx context.Context, id string, status LeaveStatus, reason *string, approvedBy string, approvedAt time.Time) (LeaveRequest, error)

	// CheckOverlapping reports whether the employee has a non-rejected leave
	// request intersecting the range.
	CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)

	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, int64, error)
}
