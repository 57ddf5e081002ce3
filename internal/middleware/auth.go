package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"inkwell/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey = "user"
	// SessionTokenKey is where the login token lives inside the cookie session.
	SessionTokenKey = "session_token"

	forbiddenMessage = "You do not have permission to view that page"
)

// UserResolver turns a session token into the logged-in user.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// LoadUser resolves the current user once per request and stores it in the
// gin context and the request context.
func LoadUser(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(SessionTokenKey).(string)
		if token == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			Logger.ErrorContext(c.Request.Context(), "failed to resolve session", slog.String("error", err.Error()))
		}
		if user == nil {
			if err == nil {
				// stale token, drop it so later requests skip the lookup
				session.Delete(SessionTokenKey)
				_ = session.Save()
			}
			c.Next()
			return
		}

		c.Set(CheckUserKey, user)
		ctx := context.WithValue(c.Request.Context(), UserIDKey, user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentUser returns the user LoadUser stored, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// Capability decides whether a (possibly nil) user may continue.
type Capability func(*models.User) bool

func Authenticated(u *models.User) bool {
	return u != nil
}

func IsAdmin(u *models.User) bool {
	return u.IsAdmin()
}

// Require aborts with 403 unless the current user has the capability. The
// refusal is recorded as models.ErrUnauthorized on the context.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !capability(user) {
			_ = c.Error(models.ErrUnauthorized)
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Code":        http.StatusForbidden,
				"Error":       forbiddenMessage,
				"CurrentUser": user,
				"LoggedIn":    user != nil,
				"CurrentPath": c.Request.URL.Path,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return Require(Authenticated)
}

// AdminRequired ensures the user is an admin. Mount it after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return Require(IsAdmin)
}
