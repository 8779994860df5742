package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"

	"staysync/internal/domain"
	"staysync/internal/observability"
)

// MediaSource opens stored images by filename.
type MediaSource interface {
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
}

// Media serves images kept in the database-backed media store. The last
// path segment is the filename.
func Media(source MediaSource, onError func(w http.ResponseWriter, r *http.Request, err error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := path.Base(r.URL.Path)

		body, contentType, err := source.Open(r.Context(), filename)
		if errors.Is(err, domain.ErrNotFound) {
			onError(w, r, ErrPageNotFound)
			return
		}
		if err != nil {
			onError(w, r, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			observability.FromContext(r.Context()).Warn("failed to stream image",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	}
}
