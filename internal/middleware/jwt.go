package middleware

import (
	"net/http"
	"strings"

	"github.com/gunnishmehta/youtube-backend/internal/constants"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/service"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Gin context keys populated by RequireAuth
const (
	GinKeyUserID = "user_id"
	GinKeyUser   = "user"
)

type SessionMiddleware struct {
	tokens *service.TokenService
}

func NewSessionMiddleware(tokens *service.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// extractAccessToken reads the access token from the session cookie first,
// then falls back to the Authorization header
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(constants.CookieAccessToken); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(authHeader, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, constants.BearerPrefix))
	}

	return ""
}

// RequireAuth validates the access token and sets the resolved user in both
// the Gin context and the request context
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := extractAccessToken(c)
		if token == "" {
			logger.WarnWithContext(ctx, "Missing access token").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Log()
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := m.tokens.VerifyAccess(ctx, token)
		if err != nil {
			logger.WarnWithContext(ctx, "Access token rejected").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Err(err).
				Log()
			abortUnauthorized(c, err)
			return
		}

		c.Set(GinKeyUserID, user.ID)
		c.Set(GinKeyUser, user)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, user.ID))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
		http.StatusUnauthorized,
		apperrors.GetErrorMessage(err),
	))
	c.Abort()
}

// CurrentUserID returns the authenticated user id set by RequireAuth
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
