package attendance

import (
	"time"
)

// Status is the presence axis of a record: one-way checked_in -> checked_out.
type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// ApprovalStatus is the review axis: one-way pending -> approved|rejected.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// AttendanceRecord is one check-in event on a construction site. CheckOutTime,
// OutTimePhoto and TotalHours are written exactly once at check-out; the
// review fields are written exactly once by a project manager.
type AttendanceRecord struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Role         string
	Site         string

	Status         Status
	ApprovalStatus ApprovalStatus

	CheckInTime  time.Time
	CheckOutTime *time.Time
	TotalHours   *float64

	InTimePhoto  string
	OutTimePhoto *string

	Latitude  *float64
	Longitude *float64
	Address   *string

	// DistanceFromSiteMeters is advisory only: how far the reported check-in
	// location was from the registered site geofence center, when the site is
	// known. The record is stored either way.
	DistanceFromSiteMeters *float64

	RejectionReason *string
	ReviewedBy      *string
	ReviewedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the employee is still checked in on this record.
func (r *AttendanceRecord) IsOpen() bool {
	return r.CheckOutTime == nil
}

// IsReviewed reports whether a project manager already decided this record.
func (r *AttendanceRecord) IsReviewed() bool {
	return r.ApprovalStatus != ApprovalPending
}
