package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"staysync/internal/domain"
	"staysync/internal/media"
	"staysync/internal/observability"
)

// FormFieldImage is the file input of the listing forms.
const FormFieldImage = "listing[image]"

// Upload stores the optional listing[image] file in the media store and
// puts the resulting image in the request context.
func Upload(store domain.MediaStore, onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := parseForm(r); err != nil {
				onError(w, r, err)
				return
			}
			if r.MultipartForm == nil {
				next.ServeHTTP(w, r)
				return
			}

			file, header, err := r.FormFile(FormFieldImage)
			if errors.Is(err, http.ErrMissingFile) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				onError(w, r, ErrMalformedForm)
				return
			}
			defer file.Close()

			if header.Size > media.MaxUploadBytes {
				onError(w, r, media.ErrImageTooLarge)
				return
			}
			contentType := header.Header.Get("Content-Type")
			if !media.IsImage(contentType) {
				onError(w, r, media.ErrNotAnImage)
				return
			}

			img, err := store.Upload(r.Context(), header.Filename, contentType, file)
			if err != nil {
				observability.FromContext(r.Context()).Error("image upload failed",
					slog.String("error", err.Error()),
					slog.String("filename", header.Filename),
				)
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithImage(r.Context(), img)))
		})
	}
}
