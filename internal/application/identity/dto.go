package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/identity"
)

// DashboardPath is where a successful login lands
const DashboardPath = "/admin/dashboard"

// LoginInput contains the input for admin login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	TokenID     string
	ExpiresAt   time.Time
	Redirect    string
	Admin       AdminInfo
}

// AdminInfo is the public view of an admin account
type AdminInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToAdminInfo converts a domain admin user
func ToAdminInfo(u *identity.AdminUser) AdminInfo {
	return AdminInfo{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

// Session is an authenticated admin session decoded from a token
type Session struct {
	AdminID   uuid.UUID
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// LogoutInput contains the input for admin logout
type LogoutInput struct {
	AdminID   uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	AdminID     uuid.UUID
	OldPassword string
	NewPassword string
}

// BootstrapInput describes the first admin account created on an empty database
type BootstrapInput struct {
	Username string
	Password string
	Name     string
}
