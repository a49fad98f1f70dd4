package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

// Auth validates the access token and stashes the caller's identity in
// the request context. Token validation is stateless, so every service
// runs this with nothing but the shared secret.
func Auth(jwtSecretKey string, log *logger.Logger) gin.HandlerFunc {
	authLog := log.With("middleware", "auth")
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, apierr.Unauthorized("missing access token"))
			c.Abort()
			return
		}
		claims, err := services.ParseClaims(tokenString, jwtSecretKey)
		if err != nil {
			authLog.Debug("token rejected", "path", c.Request.URL.Path, "error", err)
			response.RespondError(c, err)
			c.Abort()
			return
		}
		requestData := &ctxutil.RequestData{
			UserID:      claims.UserID,
			Username:    claims.Username,
			Role:        claims.Role,
			TokenString: tokenString,
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), requestData))
		c.Next()
	}
}

// RequireRole gates a route group to one role. It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestData := ctxutil.GetRequestData(c.Request.Context())
		if requestData == nil || requestData.Role != role {
			response.RespondError(c, apierr.Forbidden("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
