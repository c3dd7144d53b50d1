package attendance

import (
	"strings"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

// LocationPayload is the client-reported geotag. It is stored as given and
// never independently verified.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type CheckInRequest struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Role         string           `json:"role"`
	Site         string           `json:"site"`
	PhotoURL     string           `json:"photo_url"`
	Location     *LocationPayload `json:"location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	}

	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{
			Field:   "site",
			Message: "site is required",
		})
	}

	if validator.IsEmpty(r.PhotoURL) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo_url",
			Message: "check-in photo is required",
		})
	}

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
	PhotoURL   string `json:"photo_url"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.PhotoURL) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo_url",
			Message: "check-out photo is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReviewRequest carries a project manager's decision on a record.
type ReviewRequest struct {
	ID              string `json:"-"`
	Decision        string `json:"status"` // approved | rejected
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	decision := strings.ToLower(strings.TrimSpace(r.Decision))

	if decision != string(ApprovalApproved) && decision != string(ApprovalRejected) {
		return ErrInvalidDecision
	}

	if decision == string(ApprovalRejected) && validator.IsEmpty(r.RejectionReason) {
		return ErrMissingReason
	}

	r.Decision = decision
	return nil
}

type AttendanceFilter struct {
	EmployeeID     *string `json:"employee_id,omitempty"`
	ApprovalStatus *string `json:"approval_status,omitempty"`
	Site           *string `json:"site,omitempty"`
	Role           *string `json:"role,omitempty"`
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.ApprovalStatus != nil {
		valid := []string{string(ApprovalPending), string(ApprovalApproved), string(ApprovalRejected)}
		if !validator.IsInSlice(*f.ApprovalStatus, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "approval_status",
				Message: "approval_status must be one of: pending, approved, rejected",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
	Site         string `json:"site"`

	Status         string `json:"status"`
	ApprovalStatus string `json:"approval_status"`

	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time,omitempty"`
	TotalHours   *float64 `json:"total_hours,omitempty"`

	InTimePhoto  string  `json:"in_time_photo"`
	OutTimePhoto *string `json:"out_time_photo,omitempty"`

	Location               *LocationPayload `json:"location,omitempty"`
	DistanceFromSiteMeters *float64         `json:"distance_from_site_meters,omitempty"`

	RejectionReason *string `json:"rejection_reason,omitempty"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Records    []AttendanceResponse `json:"records"`
}

// StatusResponse tells a client whether the employee can check in or out.
type StatusResponse struct {
	HasOpenSession bool                `json:"has_open_session"`
	OpenSession    *AttendanceResponse `json:"open_session,omitempty"`
	CanCheckIn     bool                `json:"can_check_in"`
	CanCheckOut    bool                `json:"can_check_out"`
}

// EmployeeSummary aggregates one employee's attendance over a range.
// Total hours sums closed records only.
type EmployeeSummary struct {
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	Role              string  `json:"role"`
	DaysPresent       int     `json:"days_present"`
	TotalHours        float64 `json:"total_hours"`
	PendingApprovals  int     `json:"pending_approvals"`
	LastCheckInTime   string  `json:"last_check_in_time,omitempty"`
	LastStatus        string  `json:"last_status,omitempty"`
	LastApprovalState string  `json:"last_approval_status,omitempty"`
}

type SummaryResponse struct {
	Site      string            `json:"site,omitempty"`
	StartDate string            `json:"start_date,omitempty"`
	EndDate   string            `json:"end_date,omitempty"`
	Employees []EmployeeSummary `json:"employees"`
}

// SiteActivity is one site row for the manager digest job.
type SiteActivity struct {
	Site            string
	PendingApproval int
	OpenSessions    int
}
