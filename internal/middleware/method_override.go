package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// MethodOverride lets HTML forms reach PUT and DELETE routes by posting to
// ?_method=PUT or ?_method=DELETE. Only POST requests are rewritten.
// chi routes on the route context's method once a parent mux has set it,
// so that is rewritten along with the request.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.URL.Query().Get("_method")); m {
			case http.MethodPut, http.MethodDelete, http.MethodPatch:
				r.Method = m
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					rctx.RouteMethod = m
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
