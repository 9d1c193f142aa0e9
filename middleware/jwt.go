package middleware

import (
	"bitwise74/resource-api/errs"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves an access token to a user id
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// NewJWTMiddleware rejects requests without a valid access token and sets
// userID for the handlers. The token is read from the Authorization header,
// the auth_token cookie is used as a fallback.
func NewJWTMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, errs.KindUnauthorized, "Missing authorization token")
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			var e *errs.Error
			if errors.As(err, &e) && e.Kind == errs.KindUnauthorized {
				abort(c, errs.KindUnauthorized, e.Message)
				return
			}

			zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			abort(c, errs.KindInternal, "Internal server error")
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}

	return ""
}
