package models

import "time"

// UserRole represents the portal roles recognised by the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleParent  UserRole = "parent"
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// rolePrecedence orders roles for accounts holding more than one assignment.
// The schema does not enforce uniqueness, so resolution must be deterministic.
var rolePrecedence = map[UserRole]int{
	RoleAdmin:   4,
	RoleTeacher: 3,
	RoleParent:  2,
	RoleStudent: 1,
}

// ResolveRole picks the authoritative role from a set of assignments.
// Zero assignments resolve to no role; the caller must deny all portals.
func ResolveRole(roles []UserRole) (UserRole, bool) {
	var winner UserRole
	best := 0
	for _, r := range roles {
		if p := rolePrecedence[r]; p > best {
			best = p
			winner = r
		}
	}
	return winner, best > 0
}

// User represents an account stored in the users table. It doubles as the
// profile record since authentication is first-party.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// RoleAssignment is a row of the user_roles table.
type RoleAssignment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateUserRequest provisions an account from the admin portal. Unlike
// self-registration it may assign the admin role.
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	FullName string   `json:"full_name" validate:"required"`
	Role     UserRole `json:"role" validate:"required,oneof=admin parent student teacher"`
}

// UserFilter captures filtering criteria for listing accounts.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UserDetail is an account together with its resolved role.
type UserDetail struct {
	User
	Role UserRole `json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
