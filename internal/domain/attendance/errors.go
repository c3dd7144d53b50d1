package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn = errors.New("you already have an open check-in, check out first")
	ErrNoActiveCheckIn  = errors.New("no active check-in found for this employee")

	// Review errors
	ErrInvalidDecision = errors.New("review decision must be approved or rejected")
	ErrMissingReason   = errors.New("rejection reason is required when rejecting")
	ErrAlreadyReviewed = errors.New("attendance record has already been approved or rejected")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
