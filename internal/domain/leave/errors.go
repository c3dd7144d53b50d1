package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request has already been approved or rejected")
	ErrOverlappingLeave      = errors.New("an overlapping leave request already exists")
	ErrInvalidDateRange      = errors.New("end date must not be before start date")
)
