package response

import (
	"errors"
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/domain/auth"
	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/leave"
	"github.com/buildform/siteops-backend-go/internal/domain/material"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/pettycash"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrApproverAccessRequired):
		Forbidden(w, "Project manager access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Employee already has an open check-in")
	case errors.Is(err, attendance.ErrNoActiveCheckIn):
		Conflict(w, "Employee has no active check-in")
	case errors.Is(err, attendance.ErrInvalidDecision):
		BadRequest(w, "Decision must be approved or rejected", nil)
	case errors.Is(err, attendance.ErrMissingReason):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, attendance.ErrAlreadyReviewed):
		Conflict(w, "Attendance record already reviewed")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Site domain errors
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, site.ErrSiteCodeExists):
		Conflict(w, "Site code already exists")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)

	// Material domain errors
	case errors.Is(err, material.ErrMaterialNotFound):
		NotFound(w, "Material not found")
	case errors.Is(err, material.ErrMaterialExists):
		Conflict(w, "Material already exists for this site")
	case errors.Is(err, material.ErrInsufficientStock):
		BadRequest(w, "Insufficient stock for outbound movement", nil)

	// Petty cash domain errors
	case errors.Is(err, pettycash.ErrEntryNotFound):
		NotFound(w, "Petty cash entry not found")
	case errors.Is(err, pettycash.ErrInsufficientBalance):
		BadRequest(w, "Expense exceeds the site's petty cash balance", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
