package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"staysync/internal/domain"
	"staysync/internal/observability"
	"staysync/internal/security"
	"staysync/internal/session"
)

// FormFieldCSRF is the hidden input every form carries.
const FormFieldCSRF = "csrf_token"

var ErrCSRF = domain.NewHTTPError(http.StatusForbidden, "Invalid or missing CSRF token")

// CSRF validates the synchronizer token stored on the session for every
// state-changing request. It must run after the session middleware.
//
// Token sources (checked in order):
//   - Form field: csrf_token
//   - Header: X-CSRF-Token
//   - Header: X-XSRF-Token
func CSRF(onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || isExemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			s, ok := session.FromContext(r.Context())
			if !ok {
				onError(w, r, ErrCSRF)
				return
			}

			if err := parseForm(r); err != nil {
				onError(w, r, err)
				return
			}

			submitted := extractCSRFToken(r)
			if submitted == "" {
				logCSRFFailure(r, s.UserID, "missing token")
				onError(w, r, ErrCSRF)
				return
			}
			if !security.Equal(s.CSRFToken, submitted) {
				logCSRFFailure(r, s.UserID, "invalid token")
				onError(w, r, ErrCSRF)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// isExemptPath lists endpoints that never change state.
func isExemptPath(path string) bool {
	for _, exempt := range []string{"/health", "/metrics"} {
		if strings.HasPrefix(path, exempt) {
			return true
		}
	}
	return false
}

func extractCSRFToken(r *http.Request) string {
	if token := r.PostFormValue(FormFieldCSRF); token != "" {
		return token
	}
	if token := r.Header.Get("X-CSRF-Token"); token != "" {
		return token
	}
	return r.Header.Get("X-XSRF-Token")
}

func logCSRFFailure(r *http.Request, userID, reason string) {
	observability.FromContext(r.Context()).Warn("CSRF validation failed",
		slog.String("user_id", userID),
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.RequestURI),
		slog.String("remote_addr", r.RemoteAddr),
	)
}
