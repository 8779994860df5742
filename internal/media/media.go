// Package media stores listing images either on Cloudinary or in a MongoDB
// GridFS bucket and exposes the URL helpers the pages need.
package media

import (
	"context"
	"io"
	"strings"

	"staysync/internal/domain"
	"staysync/internal/observability"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

var (
	ErrNotAnImage    = &domain.ValidationError{Message: "uploaded file must be an image"}
	ErrImageTooLarge = &domain.ValidationError{Message: "uploaded image must be 10MB or smaller"}
)

// IsImage reports whether the content type names an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// PreviewURL rewrites an image URL to its 250px wide thumbnail by inserting
// a resize directive after the first "/upload" segment.
func PreviewURL(url string) string {
	return strings.Replace(url, "/upload", "/upload/w_250", 1)
}

// Instrumented counts uploads per store and outcome.
type Instrumented struct {
	domain.MediaStore
	Name string
}

func (s Instrumented) Upload(ctx context.Context, name, contentType string, body io.Reader) (*domain.Image, error) {
	img, err := s.MediaStore.Upload(ctx, name, contentType, body)
	observability.MediaUploadsTotal.WithLabelValues(s.Name, observability.ResultLabel(err)).Inc()
	return img, err
}
