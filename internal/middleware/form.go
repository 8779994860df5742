package middleware

import (
	"errors"
	"mime"
	"net/http"

	"staysync/internal/domain"
	"staysync/internal/media"
)

// formOverhead is the room left for text fields next to the image.
const formOverhead = 1 << 20

var ErrMalformedForm = domain.NewHTTPError(http.StatusBadRequest, "Malformed form submission")

// BodyLimit caps request bodies at the largest accepted upload.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodyBytes is the default for BodyLimit.
const MaxBodyBytes = media.MaxUploadBytes + formOverhead

// parseForm parses urlencoded and multipart bodies. Repeated calls are cheap.
func parseForm(r *http.Request) error {
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(formOverhead)
	} else {
		err = r.ParseForm()
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return media.ErrImageTooLarge
	default:
		return ErrMalformedForm
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
