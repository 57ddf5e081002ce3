package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/router"

	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading config from the environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middleware.InitLogger(cfg.Env)

	database, err := db.Open(cfg)
	if err != nil {
		middleware.Logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		middleware.Logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := router.New(cfg, database)
	if err != nil {
		middleware.Logger.Error("failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	if n, err := app.Sessions.CleanupExpired(ctx); err != nil {
		middleware.Logger.Warn("failed to clean up sessions", slog.String("error", err.Error()))
	} else if n > 0 {
		middleware.Logger.Info("removed expired sessions", slog.Int64("count", n))
	}

	if cfg.AdminEmail != "" {
		admin, err := app.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword)
		if err != nil {
			middleware.Logger.Error("failed to seed admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if admin != nil {
			middleware.Logger.Info("admin account ready", slog.Uint64("user_id", uint64(admin.ID)))
		} else {
			middleware.Logger.Info("admin account pending, it is granted on registration", slog.String("email", cfg.AdminEmail))
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)(app.Engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		middleware.Logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			middleware.Logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.Error("forced shutdown", slog.String("error", err.Error()))
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
