package employee

import (
	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Code     string  `json:"code"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	SiteCode *string `json:"site_code,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be in NNNN-NNNN format",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	validRoles := []string{"engineer", "supervisor", "project_manager", "admin"}
	if !validator.IsInSlice(r.Role, validRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: engineer, supervisor, project_manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID       string  `json:"-"`
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	SiteCode *string `json:"site_code,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Role != nil {
		validRoles := []string{"engineer", "supervisor", "project_manager", "admin"}
		if !validator.IsInSlice(*r.Role, validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be one of: engineer, supervisor, project_manager, admin",
			})
		}
	}

	if r.Status != nil {
		valid := []string{string(EmploymentActive), string(EmploymentInactive)}
		if !validator.IsInSlice(*r.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, inactive",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	SiteCode *string `json:"site_code,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Status   string  `json:"status"`
}
