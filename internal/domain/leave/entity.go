package leave

import "time"

type LeaveType string

const (
	LeaveAnnual LeaveType = "annual"
	LeaveSick   LeaveType = "sick"
	LeaveUnpaid LeaveType = "unpaid"
)

type LeaveStatus string

const (
	LeaveWaitingApproval LeaveStatus = "waiting_approval"
	LeaveApproved        LeaveStatus = "approved"
	LeaveRejected        LeaveStatus = "rejected"
)

// LeaveRequest follows the same terminal approval rule as attendance:
// waiting_approval moves to approved or rejected exactly once.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	Type            LeaveType
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	Reason          string
	Status          LeaveStatus
	RejectionReason *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName *string
}
