package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the structured logger used throughout the application.
var Logger = slog.New(&ctxHandler{slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})})

type contextKey string

const UserIDKey contextKey = "user_id"

// ctxHandler adds request-scoped values to every record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if uid, ok := ctx.Value(UserIDKey).(uint); ok {
		r.AddAttrs(slog.Any("user_id", uid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// InitLogger switches to JSON output in production and sets it as the slog default.
func InitLogger(env string) {
	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	Logger = slog.New(&ctxHandler{handler})
	slog.SetDefault(Logger)
}

// RequestLogger logs one line per request after the handler chain ran.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, slog.String("error", c.Errors.String()))
			if c.Writer.Status() < http.StatusInternalServerError {
				Logger.WarnContext(c.Request.Context(), "request rejected", fields...)
				return
			}
			Logger.ErrorContext(c.Request.Context(), "request failed", fields...)
			return
		}
		Logger.InfoContext(c.Request.Context(), "request processed", fields...)
	}
}
