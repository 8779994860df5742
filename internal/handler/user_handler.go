package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"staysync/internal/domain"
	"staysync/internal/observability"
	"staysync/internal/session"
	"staysync/internal/view"
)

const (
	MsgWelcome            = "Welcome to StaySync!"
	MsgWelcomeBack        = "Welcome back to StaySync!"
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoggedOut          = "You are logged out!"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// SessionManager is the part of the session manager the user pages drive.
type SessionManager interface {
	Flasher
	SetReturnTo(r *http.Request, url string) error
	Login(w http.ResponseWriter, r *http.Request, user *domain.User) error
	Logout(w http.ResponseWriter, r *http.Request) error
}

type UserHandler struct {
	auth     AuthService
	sessions SessionManager
	render   Renderer
}

func NewUserHandler(auth AuthService, sessions SessionManager, render Renderer) *UserHandler {
	return &UserHandler{
		auth:     auth,
		sessions: sessions,
		render:   render,
	}
}

func (h *UserHandler) RenderSignup(w http.ResponseWriter, r *http.Request) error {
	return h.render.Render(w, r, http.StatusOK, view.PageSignup, nil)
}

// Signup registers the account and logs it in. A rejected form is shown
// again with the reason flashed and the username and email kept.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))

	user, err := h.auth.Register(r.Context(), username, email, r.PostFormValue("password"))
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrValidation):
		default:
			return err
		}

		if flashErr := h.sessions.AddFlash(r, domain.FlashError, err.Error()); flashErr != nil {
			return flashErr
		}
		return h.render.Render(w, r, status, view.PageSignup, view.SignupPage{Username: username, Email: email})
	}

	if err := h.sessions.Login(w, r, user); err != nil {
		return err
	}

	observability.FromContext(r.Context()).Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return success(w, r, h.sessions, MsgWelcome, "/listings")
}

func (h *UserHandler) RenderLogin(w http.ResponseWriter, r *http.Request) error {
	return h.render.Render(w, r, http.StatusOK, view.PageLogin, nil)
}

// Login authenticates the form and sends the user back to the page that
// required it, or to /listings.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) error {
	returnTo := session.ReturnToFromContext(r.Context())

	user, err := h.auth.Authenticate(r.Context(), strings.TrimSpace(r.PostFormValue("username")), r.PostFormValue("password"))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		if returnTo != "" {
			if err := h.sessions.SetReturnTo(r, returnTo); err != nil {
				return err
			}
		}
		return failure(w, r, h.sessions, MsgInvalidCredentials, "/login")
	}
	if err != nil {
		return err
	}

	if err := h.sessions.Login(w, r, user); err != nil {
		return err
	}

	observability.FromContext(r.Context()).Info("user logged in", slog.String("user_id", user.ID))

	if returnTo == "" {
		returnTo = "/listings"
	}
	return success(w, r, h.sessions, MsgWelcomeBack, returnTo)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := h.sessions.Logout(w, r); err != nil {
		return err
	}
	return success(w, r, h.sessions, MsgLoggedOut, "/listings")
}
