// Package identity authenticates back-office admins.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/identity"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrSessionInvalid is returned for missing, expired or revoked sessions
var ErrSessionInvalid = shared.NewDomainError("UNAUTHORIZED", "로그인이 필요합니다")

// AuthService handles admin authentication operations
type AuthService struct {
	users     identity.AdminUserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	now       func() time.Time
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.AdminUserRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		now:       time.Now,
		logger:    logger,
	}
}

// Login authenticates an admin and issues a session token.
// Unknown users and wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username), zap.String("ip", input.IP))

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Admin not found during login", zap.String("username", input.Username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	authErr := user.Authenticate(input.Password, s.now())
	// failure counters and last login change either way
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update admin after login attempt", zap.Error(err))
	}
	if authErr != nil {
		s.logger.Warn("Admin login rejected",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", user.FailedAttempts),
			zap.Error(authErr))
		return nil, authErr
	}

	token, err := s.tokens.GenerateAccessToken(auth.GenerateTokenInput{
		AdminID:  user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication token", err)
	}

	s.logger.Info("Admin logged in",
		zap.String("username", user.Username),
		zap.String("admin_id", user.ID.String()))

	return &LoginResult{
		AccessToken: token.Value,
		TokenID:     token.ID,
		ExpiresAt:   token.ExpiresAt,
		Redirect:    DashboardPath,
		Admin:       ToAdminInfo(user),
	}, nil
}

// ValidateSession decodes a session token and rejects revoked ones
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, shared.WrapDomainError(ErrSessionInvalid.Code, ErrSessionInvalid.Message, err)
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		// a blacklist outage must not lock every admin out
		s.logger.Warn("Token blacklist check failed", zap.Error(err))
	} else if revoked {
		return nil, shared.WrapDomainError(ErrSessionInvalid.Code, ErrSessionInvalid.Message, auth.ErrTokenBlacklisted)
	}
	adminID, err := claims.GetAdminUUID()
	if err != nil {
		return nil, shared.WrapDomainError(ErrSessionInvalid.Code, ErrSessionInvalid.Message, err)
	}
	session := &Session{
		AdminID:  adminID,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Logout revokes the session token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Admin logout", zap.String("admin_id", input.AdminID.String()))
	if input.TokenID == "" {
		return nil
	}
	ttl := input.ExpiresAt.Sub(s.now())
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenID, ttl); err != nil {
		s.logger.Error("Failed to revoke session token", zap.Error(err))
		return err
	}
	return nil
}

// GetCurrentAdmin returns the account behind a session
func (s *AuthService) GetCurrentAdmin(ctx context.Context, adminID uuid.UUID) (*AdminInfo, error) {
	user, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrSessionInvalid
	}
	info := ToAdminInfo(user)
	return &info, nil
}

// ChangePassword changes an admin's password after checking the old one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, input.AdminID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(input.OldPassword) {
		return identity.ErrInvalidCredentials
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Admin password changed", zap.String("admin_id", input.AdminID.String()))
	return nil
}

// EnsureBootstrapAdmin creates the first admin when no account exists yet.
// It reports whether an account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, input BootstrapInput) (bool, error) {
	if input.Username == "" || input.Password == "" {
		return false, nil
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	user, err := identity.NewAdminUser(input.Username, input.Password, input.Name, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap admin created", zap.String("username", user.Username))
	return true, nil
}
