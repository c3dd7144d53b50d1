package employee

import "time"

type EmploymentStatus string

const (
	EmploymentActive   EmploymentStatus = "active"
	EmploymentInactive EmploymentStatus = "inactive"
)

// Employee is one person in the engineer / project-manager directory.
type Employee struct {
	ID        string
	Code      string // e.g. "2024-0031"
	FullName  string
	Role      string // engineer, supervisor, project_manager, admin
	SiteCode  *string
	Phone     *string
	Status    EmploymentStatus
	UserID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
