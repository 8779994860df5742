package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"

	"staysync/internal/domain"
)

// Cloudinary keeps listing images in a Cloudinary folder
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid cloudinary credentials: %w", err)
	}
	return newCloudinary(cfg, folder)
}

func newCloudinary(cfg *config.Configuration, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromConfiguration(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload streams the file into the configured folder
func (c *Cloudinary) Upload(ctx context.Context, name, contentType string, body io.Reader) (*domain.Image, error) {
	res, err := c.cld.Upload.Upload(ctx, body, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary error: %s", res.Error.Message)
	}

	imageURL := res.SecureURL
	if imageURL == "" {
		imageURL = res.URL
	}
	if imageURL == "" || res.PublicID == "" {
		return nil, fmt.Errorf("cloudinary upload of %q returned no url", name)
	}

	return &domain.Image{URL: imageURL, Filename: res.PublicID}, nil
}

// Delete destroys the image with the given public ID. Deleting a missing image succeeds.
func (c *Cloudinary) Delete(ctx context.Context, filename string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: filename})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary error: %s", res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", res.Result)
	}
	return nil
}
