// Package session keeps the server-side session behind the staysync_session
// cookie: identity, CSRF token, flash messages and the post-login redirect.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"staysync/internal/domain"
	"staysync/internal/observability"
	"staysync/internal/security"
)

const (
	CookieName = "staysync_session"
	Lifetime   = 7 * 24 * time.Hour
)

// UserLookup resolves the user bound to a session
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Manager loads, creates and rotates sessions
type Manager struct {
	repo    domain.SessionRepository
	users   UserLookup
	tokens  *security.TokenManager
	secure  bool
	now     func() time.Time
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

func NewManager(repo domain.SessionRepository, users UserLookup, tokens *security.TokenManager, secure bool) *Manager {
	return &Manager{
		repo:   repo,
		users:  users,
		tokens: tokens,
		secure: secure,
		now:    time.Now,
		onError: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, domain.DefaultErrorMessage, http.StatusInternalServerError)
		},
	}
}

// SetErrorResponder replaces the response written when the session store fails
func (m *Manager) SetErrorResponder(fn func(w http.ResponseWriter, r *http.Request, err error)) {
	m.onError = fn
}

// Middleware binds a session to every request, creating an anonymous one
// when the cookie is missing, unknown or expired.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		s, err := m.load(ctx, r)
		if err != nil {
			m.fail(w, r, err)
			return
		}
		if s == nil {
			if s, err = m.start(ctx, w, ""); err != nil {
				m.fail(w, r, err)
				return
			}
		}

		ctx = WithSession(ctx, s)

		if s.IsAuthenticated() {
			user, err := m.users.GetUserByID(ctx, s.UserID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				// account is gone; continue anonymously
				s.UserID = ""
				if err := m.repo.Update(ctx, s); err != nil {
					m.fail(w, r, err)
					return
				}
			case err != nil:
				m.fail(w, r, err)
				return
			default:
				ctx = WithIdentity(ctx, domain.IdentityOf(user))
				ctx = observability.WithUserID(ctx, user.ID)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) load(ctx context.Context, r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s, err := m.repo.GetByToken(ctx, cookie.Value)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.IsExpired(m.now()) {
		return nil, nil
	}
	return s, nil
}

func (m *Manager) start(ctx context.Context, w http.ResponseWriter, userID string) (*domain.Session, error) {
	s := &domain.Session{UserID: userID}
	if err := m.issue(s); err != nil {
		return nil, err
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	m.setCookie(w, s)
	return s, nil
}

// issue gives s a fresh token, CSRF token and expiry.
func (m *Manager) issue(s *domain.Session) error {
	token, err := m.tokens.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}
	csrf, err := m.tokens.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate csrf token: %w", err)
	}
	s.ID = ""
	s.Token = token
	s.CSRFToken = csrf
	s.ExpiresAt = m.now().Add(Lifetime)
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, s *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("session store failure",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)
	m.onError(w, r, err)
}

func (m *Manager) current(r *http.Request) (*domain.Session, error) {
	s, ok := FromContext(r.Context())
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// AddFlash queues a one-shot message for the next rendered page
func (m *Manager) AddFlash(r *http.Request, kind, message string) error {
	s, err := m.current(r)
	if err != nil {
		return err
	}
	if s.Flash == nil {
		s.Flash = domain.Flash{}
	}
	s.Flash[kind] = append(s.Flash[kind], message)
	return m.repo.Update(r.Context(), s)
}

// PopFlash returns the pending messages and clears them
func (m *Manager) PopFlash(r *http.Request) (domain.Flash, error) {
	s, err := m.current(r)
	if err != nil {
		return nil, err
	}
	if s.Flash.Empty() {
		return domain.Flash{}, nil
	}
	flash := s.Flash
	s.Flash = domain.Flash{}
	if err := m.repo.Update(r.Context(), s); err != nil {
		s.Flash = flash
		return nil, err
	}
	return flash, nil
}

// SetReturnTo remembers where to send the visitor after they log in
func (m *Manager) SetReturnTo(r *http.Request, url string) error {
	s, err := m.current(r)
	if err != nil {
		return err
	}
	s.ReturnTo = url
	return m.repo.Update(r.Context(), s)
}

// PopReturnTo returns the remembered URL and forgets it
func (m *Manager) PopReturnTo(r *http.Request) (string, error) {
	s, err := m.current(r)
	if err != nil {
		return "", err
	}
	if s.ReturnTo == "" {
		return "", nil
	}
	url := s.ReturnTo
	s.ReturnTo = ""
	if err := m.repo.Update(r.Context(), s); err != nil {
		return "", err
	}
	return url, nil
}

// Login binds user to the session under a new token. Pending flashes move
// to the new session; the old record is deleted.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	return m.rotate(w, r, user.ID)
}

// Logout drops the identity by rotating to a fresh anonymous session.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	return m.rotate(w, r, "")
}

// rotate reissues the request's session in place so later flashes in the
// same request land on the new record.
func (m *Manager) rotate(w http.ResponseWriter, r *http.Request, userID string) error {
	s, err := m.current(r)
	if err != nil {
		return err
	}

	oldToken := s.Token
	if err := m.issue(s); err != nil {
		return err
	}
	s.UserID = userID
	s.ReturnTo = ""

	ctx := r.Context()
	if err := m.repo.Create(ctx, s); err != nil {
		return err
	}
	if oldToken != "" {
		if err := m.repo.Delete(ctx, oldToken); err != nil {
			observability.FromContext(ctx).Warn("failed to delete rotated session", slog.String("error", err.Error()))
		}
	}
	m.setCookie(w, s)
	return nil
}

// Cleanup removes expired sessions
func (m *Manager) Cleanup(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	observability.SessionsExpiredTotal.Add(float64(n))
	return n, nil
}
