package domain

import (
	"context"
	"io"
)

var ErrMediaNotFound = &kindError{msg: "media not found", kind: ErrNotFound}

// MediaStore keeps uploaded images and hands back a stable URL and identifier.
type MediaStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (*Image, error)
	Delete(ctx context.Context, filename string) error
}
