package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masgolf/backend/internal/interfaces/http/dto"
)

// CronAuth accepts requests carrying "Authorization: Bearer <secret>".
// With no secret configured every request is refused.
func CronAuth(secret string) gin.HandlerFunc {
	want := []byte("Bearer " + secret)
	return func(c *gin.Context) {
		if secret == "" {
			abortWithError(c, http.StatusServiceUnavailable, dto.ErrCodeForbidden, "cron endpoints are disabled")
			return
		}
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "invalid cron secret")
			return
		}
		c.Next()
	}
}
