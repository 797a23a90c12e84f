package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fiscal-forum/internal/common/auth"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/models"
)

const tokenInfoKey = "tokenInfo"

// TokenValidator introspects bearer tokens. *auth.KeycloakClient
// satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

// RequireRole admits requests whose bearer token is active and carries role.
func RequireRole(validator TokenValidator, role string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == header {
			respondError(c, log, apperrors.NewAuthenticationError("missing bearer token"))
			return
		}

		info, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if role != "" && !info.HasRole(role) {
			log.Warn("admin access denied", map[string]interface{}{"username": info.Username, "role": role})
			c.AbortWithStatusJSON(http.StatusForbidden, models.SubmitResponse{Error: "Forbidden"})
			return
		}

		c.Set(tokenInfoKey, info)
		c.Next()
	}
}
