package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/masgolf/backend/internal/application/identity"
	"github.com/masgolf/backend/internal/domain/identity"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/masgolf/backend/internal/infrastructure/logger"
	"github.com/masgolf/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// LoginPath is the admin login page
const LoginPath = "/admin/login"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// AuthHandler handles admin login, logout and the admin pages
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "admin_session"
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// LoginRequest represents the login request body
// @Description Admin credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"admin"`
	Password string `json:"password" binding:"required,max=128" example:"password123"`
}

// LoginResponse is returned after a successful API login
// @Description Session details; the token is also set as the admin_session cookie
type LoginResponse struct {
	AccessToken string                `json:"access_token"`
	ExpiresAt   time.Time             `json:"expires_at"`
	Redirect    string                `json:"redirect"`
	Admin       identityapp.AdminInfo `json:"admin"`
}

// ChangePasswordRequest represents a password change
// @Description Current and new password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(h.cookie.Name, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Login godoc
// @ID           login
// @Summary      Admin login
// @Description  Sets the httpOnly admin_session cookie and returns the dashboard as redirect target. Five failures lock the account for 15 minutes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      423 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setSessionCookie(c, result.AccessToken, result.ExpiresAt)
	h.Success(c, LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		Redirect:    result.Redirect,
		Admin:       result.Admin,
	})
}

// Logout godoc
// @ID           logout
// @Summary      Admin logout
// @Description  Revokes the session token and clears the cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[RedirectData]
// @Security     SessionAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.revoke(c)
	h.clearSessionCookie(c)
	h.Success(c, RedirectData{Redirect: LoginPath})
}

// revoke blacklists the presented token when it is still valid
func (h *AuthHandler) revoke(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		token := middleware.SessionToken(c, h.cookie.Name)
		if token == "" {
			return
		}
		var err error
		if session, err = h.authService.ValidateSession(c.Request.Context(), token); err != nil {
			return
		}
	}
	err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		AdminID:   session.AdminID,
		TokenID:   session.TokenID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		logger.GetGinLogger(c).Warn("session revoke failed", zap.Error(err))
	}
}

// Me godoc
// @ID           currentAdmin
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.AdminInfo]
// @Failure      401 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	resp, err := h.authService.GetCurrentAdmin(c.Request.Context(), session.AdminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change the current admin's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Passwords"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		AdminID:     middleware.GetSession(c).AdminID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type loginPage struct {
	Error    string
	Next     string
	Username string
}

func (h *AuthHandler) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// safeNext keeps post-login redirects inside the admin area
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "//") && next != LoginPath {
		return next
	}
	return identityapp.DashboardPath
}

// LoginPage renders the login form, or skips it for a valid session
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token := middleware.SessionToken(c, h.cookie.Name); token != "" {
		if _, err := h.authService.ValidateSession(c.Request.Context(), token); err == nil {
			c.Redirect(http.StatusFound, safeNext(c.Query("next")))
			return
		}
	}
	h.render(c, http.StatusOK, "login.html", loginPage{Next: c.Query("next")})
}

// LoginForm handles the login form post
func (h *AuthHandler) LoginForm(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	next := c.PostForm("next")
	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: username,
		Password: c.PostForm("password"),
		IP:       c.ClientIP(),
	})
	if err != nil {
		status, msg := http.StatusInternalServerError, "로그인 처리 중 오류가 발생했습니다"
		switch {
		case errors.Is(err, identity.ErrAccountLocked):
			status, msg = http.StatusLocked, "로그인 시도가 너무 많습니다. 잠시 후 다시 시도하세요"
		case errors.Is(err, identity.ErrInvalidCredentials):
			status, msg = http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다"
		default:
			logger.GetGinLogger(c).Error("login failed", zap.Error(err))
		}
		h.render(c, status, "login.html", loginPage{Error: msg, Next: next, Username: username})
		return
	}
	h.setSessionCookie(c, result.AccessToken, result.ExpiresAt)
	c.Redirect(http.StatusFound, safeNext(next))
}

// LogoutPage revokes the session and returns to the login page
func (h *AuthHandler) LogoutPage(c *gin.Context) {
	h.revoke(c)
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, LoginPath)
}

// Dashboard renders the admin landing page. Guarded by RequireAdminPage.
func (h *AuthHandler) Dashboard(c *gin.Context) {
	session := middleware.GetSession(c)
	admin, err := h.authService.GetCurrentAdmin(c.Request.Context(), session.AdminID)
	if err != nil {
		h.clearSessionCookie(c)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", admin)
}
