package middleware

import (
	"errors"
	"net/http"
	"testing"

	"staysync/internal/domain"
	"staysync/internal/session"
)

// recordingResponder captures the error a middleware handed to the error page.
type recordingResponder struct {
	err error
}

func (rr *recordingResponder) respond(w http.ResponseWriter, r *http.Request, err error) {
	rr.err = err
	status := http.StatusInternalServerError
	var httpErr *domain.HTTPError
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.StatusOrDefault()
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func withSession(r *http.Request, s *domain.Session) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), s))
}

func withIdentity(r *http.Request, userID string) *http.Request {
	return r.WithContext(session.WithIdentity(r.Context(), domain.Identity{UserID: userID, Username: "u"}))
}

func requireCalled(t *testing.T, called bool) {
	t.Helper()
	if !called {
		t.Fatal("expected next handler to be called")
	}
}
