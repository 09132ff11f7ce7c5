package models

import "time"

// Roles assignable to users. Admin manages users and sees everything,
// User records entries and sees only their own, Viewer sees everything
// read-only.
const (
	RoleAdmin  = "Admin"
	RoleUser   = "User"
	RoleViewer = "Viewer"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Role         string     `json:"role"`
	Location     string     `json:"location,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	IsDisabled   bool       `json:"is_disabled"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	TOTPSecret   string     `json:"-"`
	CreatedBy    *int       `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal is the authenticated actor attached to every request.
type Principal struct {
	ID   int
	Role string
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication.
// When the account has TOTP enabled, Token is a short-lived temp token and
// TOTPRequired is set; the client must complete /auth/totp/verify.
type AuthResponse struct {
	Token        string `json:"token"`
	TOTPRequired bool   `json:"totp_required,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// CreateUserRequest represents the request body for creating a user (Admin only)
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

// ChangePasswordRequest represents the request body for an admin password reset
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type LoginLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
