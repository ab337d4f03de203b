package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// Context keys set by SessionAuth
const (
	ContextKeyUsuario = "usuario"
	ContextKeyToken   = "sessionToken"
)

// AuthMiddleware resolves the session cookie and guards protected routes
type AuthMiddleware struct {
	authService services.AuthService
	cookieName  string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
	}
}

// SessionAuth resolves the current user from the session cookie. Anonymous
// requests and unknown tokens continue without a user.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		c.Set(ContextKeyToken, token)

		user, err := m.authService.ResolveCurrentUser(c.Request.Context(), token)
		if err != nil {
			logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to resolve session")
			HandleError(c, err)
			c.Abort()
			return
		}
		if user != nil {
			c.Set(ContextKeyUsuario, user)
		}

		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			HandleError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MsgSomenteAdmin is shown to students reaching an administrator page
const MsgSomenteAdmin = "Esta página é restrita a administradores."

// RequireAdmin rejects anonymous requests with 401 and non-administrators with 403
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		switch {
		case user == nil:
			HandleError(c, apperrors.ErrUnauthorized)
		case !user.Admin:
			HandleError(c, apperrors.NewForbiddenError(MsgSomenteAdmin))
		default:
			c.Next()
			return
		}
		c.Abort()
	}
}

// CurrentUser returns the session user set by SessionAuth, or nil
func CurrentUser(c *gin.Context) *models.SessionUser {
	value, exists := c.Get(ContextKeyUsuario)
	if !exists {
		return nil
	}
	user, _ := value.(*models.SessionUser)
	return user
}

// SessionToken returns the raw session cookie value seen by SessionAuth
func SessionToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
