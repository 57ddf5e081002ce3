package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"inkwell/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	user := middleware.CurrentUser(c)
	obj["CurrentUser"] = user
	obj["LoggedIn"] = user != nil
	obj["IsAdmin"] = user.IsAdmin()
	obj["UserID"] = uint(0)
	if user != nil {
		obj["UserID"] = user.ID
	}

	obj["Flashes"] = takeFlashes(c)
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the error page with a message safe to show visitors.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Code": code, "Error": message})
}

func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}

// ServerError logs err and shows a generic 500 page.
func ServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.Logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
}

func flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		middleware.Logger.ErrorContext(c.Request.Context(), "failed to save flash", slog.String("error", err.Error()))
	}
}

func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save()

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		out = append(out, fmt.Sprint(f))
	}
	return out
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
}
