package user

import "time"

type Role string

const (
	RoleAdmin          Role = "admin"           // Head office - full access
	RoleProjectManager Role = "project_manager" // Can approve attendance/leave for their sites
	RoleSupervisor     Role = "supervisor"      // Site supervisor
	RoleEngineer       Role = "engineer"        // Field engineer
)

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}

// IsAdmin checks if the user has head-office access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if the user can review attendance and leave
func (u *User) CanApprove() bool {
	return u.Role == RoleProjectManager || u.Role == RoleAdmin
}
