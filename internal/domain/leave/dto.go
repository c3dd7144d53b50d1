package leave

import (
	"strings"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	Reason     string `json:"reason"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	validTypes := []string{string(LeaveAnnual), string(LeaveSick), string(LeaveUnpaid)}
	if !validator.IsInSlice(strings.ToLower(r.Type), validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: annual, sick, unpaid",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecideLeaveRequest carries the approver decision.
type DecideLeaveRequest struct {
	ID              string `json:"-"`
	Status          string `json:"status"` // approved | rejected
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	status := strings.ToLower(strings.TrimSpace(r.Status))
	if status != string(LeaveApproved) && status != string(LeaveRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		})
	}

	if status == string(LeaveRejected) && validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection reason is required when rejecting",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.Status = status
	return nil
}

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page == 0 {
		f.Page = 1
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

	if f.Status != nil {
		valid := []string{string(LeaveWaitingApproval), string(LeaveApproved), string(LeaveRejected)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: waiting_approval, approved, rejected",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Type            string  `json:"type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Requests   []LeaveResponse `json:"requests"`
}
