package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

// GCSStore uploads todo images to a Google Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, key, contentType, r)
}

var _ application.ImageStore = (*GCSStore)(nil)
