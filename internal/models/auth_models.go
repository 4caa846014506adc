package models

import "time"

// User roles. Role is stored directly on the user row; the platform has a
// small fixed set of roles rather than a role/permission table.
const (
	RoleCustomer  = "customer"
	RoleProvider  = "provider"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// NormalizeRole maps loose role spellings from registration payloads onto the
// canonical role names. Unknown values default to customer.
func NormalizeRole(raw string) string {
	switch raw {
	case "traveler", "traveller", RoleCustomer:
		return RoleCustomer
	case "service_provider", RoleProvider:
		return RoleProvider
	case RoleOrganizer:
		return RoleOrganizer
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// User represents a platform account (customer, hotel provider, tour
// organizer or admin).
type User struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name" binding:"required"`
	Email        string    `json:"email" db:"email" binding:"required,email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for obtaining tokens.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse bundles the issued tokens with the account they belong to.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
