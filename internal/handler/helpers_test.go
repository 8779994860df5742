package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"staysync/internal/domain"
	"staysync/internal/session"
)

// rendered records the last page a handler asked for.
type fakeRenderer struct {
	status int
	page   string
	data   any
	err    error
}

func (f *fakeRenderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) error {
	if f.err != nil {
		return f.err
	}
	f.status, f.page, f.data = status, page, data
	w.WriteHeader(status)
	return nil
}

type flash struct{ kind, message string }

// fakeSessions stands in for the session manager.
type fakeSessions struct {
	flashes  []flash
	returnTo string
	loggedIn *domain.User
	out      bool
	err      error
}

func (f *fakeSessions) AddFlash(r *http.Request, kind, message string) error {
	f.flashes = append(f.flashes, flash{kind, message})
	return nil
}

func (f *fakeSessions) SetReturnTo(r *http.Request, url string) error {
	f.returnTo = url
	return nil
}

func (f *fakeSessions) Login(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.loggedIn = user
	return nil
}

func (f *fakeSessions) Logout(w http.ResponseWriter, r *http.Request) error {
	if f.err != nil {
		return f.err
	}
	f.out = true
	return nil
}

func (f *fakeSessions) last(t *testing.T) flash {
	t.Helper()
	if len(f.flashes) == 0 {
		t.Fatal("expected a flash message")
	}
	return f.flashes[len(f.flashes)-1]
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(session.WithIdentity(r.Context(), domain.Identity{UserID: userID, Username: "user-" + userID}))
}

func withContext(r *http.Request, fn func(context.Context) context.Context) *http.Request {
	return r.WithContext(fn(r.Context()))
}

// serve routes req through a chi router so URL parameters resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// failOnError wraps handlers so an unexpected error fails the test.
func failOnError(t *testing.T, fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// captureError wraps handlers and stores the returned error.
func captureError(dst *error, fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*dst = fn(w, r)
	}
}
