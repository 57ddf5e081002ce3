package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	msgAlreadyRegistered = "You've already signed up with that email, log in instead!"
	msgUnknownEmail      = "That email does not exist, please try again."
	msgWrongPassword     = "Password incorrect, please try again."
)

type AuthHandler struct {
	users    *repository.CredentialStore
	sessions *services.SessionService
}

func NewAuthHandler(users *repository.CredentialStore, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "register.html", gin.H{"Form": RegisterForm{}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	errs := bindForm(c, &form)
	if errs = blank(errs, "Name", form.Name); errs != nil {
		form.Password = ""
		Render(c, http.StatusBadRequest, "register.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	user, err := h.users.Register(c.Request.Context(), form.Email, form.Name, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			flash(c, msgAlreadyRegistered)
			redirect(c, "/login")
			return
		}
		ServerError(c, err)
		return
	}

	middleware.Logger.InfoContext(c.Request.Context(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", string(user.Role)),
	)
	if err := h.startSession(c, user); err != nil {
		ServerError(c, err)
		return
	}
	redirect(c, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if errs := bindForm(c, &form); errs != nil {
		form.Password = ""
		Render(c, http.StatusBadRequest, "login.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), form.Email)
	if err != nil {
		ServerError(c, err)
		return
	}
	if user == nil {
		flash(c, msgUnknownEmail)
		redirect(c, "/login")
		return
	}
	if !h.users.VerifyPassword(user, form.Password) {
		flash(c, msgWrongPassword)
		redirect(c, "/login")
		return
	}

	if err := h.startSession(c, user); err != nil {
		ServerError(c, err)
		return
	}
	redirect(c, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if token, ok := session.Get(middleware.SessionTokenKey).(string); ok {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			middleware.Logger.ErrorContext(c.Request.Context(), "failed to end session", slog.String("error", err.Error()))
		}
	}
	session.Delete(middleware.SessionTokenKey)
	_ = session.Save()
	redirect(c, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.sessions.Login(c.Request.Context(), user)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(middleware.SessionTokenKey, token)
	return session.Save()
}
