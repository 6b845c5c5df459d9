package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is an admin permission level
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Login lockout policy
const (
	MaxFailedAttempts = 5
	LockDuration      = 15 * time.Minute
)

var (
	bcryptCost    = 12
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "아이디 또는 비밀번호가 올바르지 않습니다")

// ErrAccountLocked is returned while the lockout is in effect
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "로그인 시도 횟수를 초과했습니다. 잠시 후 다시 시도하세요")

// AdminUser is a back-office account
type AdminUser struct {
	shared.BaseEntity
	Username       string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	Name           string     `gorm:"type:varchar(100)" json:"name"`
	Role           Role       `gorm:"type:varchar(20);not null;default:'editor'" json:"role"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}

// NewAdminUser creates an active account with a bcrypt password hash
func NewAdminUser(username, password, name string, role Role) (*AdminUser, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleEditor {
		return nil, shared.InvalidInput("role must be admin or editor")
	}
	u := &AdminUser{
		BaseEntity: shared.NewBaseEntity(),
		Username:   username,
		Name:       strings.TrimSpace(name),
		Role:       role,
		IsActive:   true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and hashes a new password
func (u *AdminUser) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.InvalidInput("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.InvalidInput("password cannot exceed 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword checks password against the stored hash
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether the lockout is still in effect at now
func (u *AdminUser) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Authenticate verifies password and updates the login bookkeeping.
// The caller persists the user whatever the outcome.
func (u *AdminUser) Authenticate(password string, now time.Time) error {
	if !u.IsActive {
		return ErrInvalidCredentials
	}
	if u.IsLocked(now) {
		return ErrAccountLocked
	}
	if !u.VerifyPassword(password) {
		u.FailedAttempts++
		if u.FailedAttempts >= MaxFailedAttempts {
			until := now.Add(LockDuration)
			u.LockedUntil = &until
			u.FailedAttempts = 0
		}
		u.Touch()
		return ErrInvalidCredentials
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	u.Touch()
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return shared.InvalidInput("username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.InvalidInput("username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.InvalidInput("username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}
