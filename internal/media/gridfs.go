package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staysync/internal/domain"
)

const (
	gridFSBucket = "media"

	// GridFSPath is where stored images are served from.
	GridFSPath = "/media/upload"
)

// GridFS keeps images in a MongoDB GridFS bucket
type GridFS struct {
	bucket *gridfs.Bucket
}

func NewGridFS(db *mongo.Database) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(gridFSBucket))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket}, nil
}

func (g *GridFS) Upload(ctx context.Context, name, contentType string, body io.Reader) (*domain.Image, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})

	id, err := g.bucket.UploadFromStream(name, body, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	return &domain.Image{
		URL:      GridFSPath + "/" + id.Hex(),
		Filename: id.Hex(),
	}, nil
}

// Delete removes the stored file. Deleting a missing file succeeds.
func (g *GridFS) Delete(ctx context.Context, filename string) error {
	id, err := primitive.ObjectIDFromHex(filename)
	if err != nil {
		return nil
	}

	err = g.bucket.DeleteContext(ctx, id)
	if err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Open returns the stored bytes and the content type recorded at upload.
func (g *GridFS) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	id, err := primitive.ObjectIDFromHex(filename)
	if err != nil {
		return nil, "", domain.ErrMediaNotFound
	}

	stream, err := g.bucket.OpenDownloadStream(id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", domain.ErrMediaNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && len(file.Metadata) > 0 {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}
	return stream, contentType, nil
}
