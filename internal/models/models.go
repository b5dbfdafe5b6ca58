package models

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleCoach      Role = "coach"
	RoleParent     Role = "parent"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperadmin, RoleAdmin, RoleCoach, RoleParent:
		return Role(s), true
	}
	return "", false
}

// Account statuses drive the approval flow for coach/admin registrations.
type UserStatus string

const (
	StatusActive              UserStatus = "active"
	StatusPending             UserStatus = "pending"
	StatusRejected            UserStatus = "rejected"
	StatusSuspended           UserStatus = "suspended"
	StatusPendingVerification UserStatus = "pending_verification"
)
