package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"staysync/internal/domain"
	"staysync/internal/observability"
	"staysync/internal/view"
)

// Renderer draws a named page.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) error
}

var ErrPageNotFound = domain.NewHTTPError(http.StatusNotFound, "Page not found")

// ErrorHandler turns every error that reaches the HTTP boundary into the
// error page.
type ErrorHandler struct {
	render Renderer
}

func NewErrorHandler(render Renderer) *ErrorHandler {
	return &ErrorHandler{render: render}
}

// Handle renders err with the status it carries.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	logger := observability.FromContext(r.Context())
	attrs := []any{
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	page := view.ErrorPage{Status: status, Message: message}
	if renderErr := h.render.Render(w, r, status, view.PageError, page); renderErr != nil {
		logger.Error("failed to render error page", slog.String("error", renderErr.Error()))
		http.Error(w, message, status)
	}
}

// Wrap adapts a handler that returns an error, sending failures and panics
// to Handle.
func (h *ErrorHandler) Wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()

		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}

// NotFound answers every unmatched route.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, ErrPageNotFound)
}

// classify picks the status and user-facing message for err. Unexpected
// errors get the generic message so internals never reach the page.
func classify(err error) (int, string) {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusOrDefault(), httpErr.MessageOrDefault()
	}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "You must be logged in to do that!"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You don't have permission to do that!"
	}
	return domain.DefaultErrorStatus, domain.DefaultErrorMessage
}
