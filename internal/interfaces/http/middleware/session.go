package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/masgolf/backend/internal/application/identity"
	"github.com/masgolf/backend/internal/infrastructure/logger"
	"github.com/masgolf/backend/internal/interfaces/http/dto"
)

const sessionKey = "admin_session"

// SessionValidator decodes and checks a session token
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*identityapp.Session, error)
}

// SessionConfig configures the admin session guards
type SessionConfig struct {
	CookieName string
	Validator  SessionValidator
	LoginPath  string
}

// SessionToken reads the session cookie, falling back to a bearer token
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func authenticate(c *gin.Context, cfg SessionConfig) bool {
	session, err := cfg.Validator.ValidateSession(c.Request.Context(), SessionToken(c, cfg.CookieName))
	if err != nil {
		return false
	}
	c.Set(sessionKey, session)
	c.Request = c.Request.WithContext(logger.WithAdminID(c.Request.Context(), session.AdminID.String()))
	return true
}

// RequireAdmin guards API routes; unauthenticated requests get 401 JSON
func RequireAdmin(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, cfg) {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "로그인이 필요합니다")
			return
		}
		c.Next()
	}
}

// RequireAdminPage guards admin pages; unauthenticated requests are redirected to the login page
func RequireAdminPage(cfg SessionConfig) gin.HandlerFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/admin/login"
	}
	return func(c *gin.Context) {
		if !authenticate(c, cfg) {
			target := loginPath
			if c.Request.URL.Path != "" {
				target += "?next=" + url.QueryEscape(c.Request.URL.Path)
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole allows only sessions with the given role. Use after RequireAdmin.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSession(c)
		if s == nil || s.Role != role {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "권한이 없습니다")
			return
		}
		c.Next()
	}
}

// GetSession returns the session set by the guards, or nil
func GetSession(c *gin.Context) *identityapp.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*identityapp.Session)
	return s
}
