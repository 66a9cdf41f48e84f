package objectstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"catalog-kit/internal/domain"
)

// Compile-time check: GCS implements domain.ObjectStore.
var _ domain.ObjectStore = (*GCS)(nil)

// GCS reads objects from Google Cloud Storage.
type GCS struct {
	client *storage.Client
}

// NewGCS creates a GCS store. An empty credentialsFile uses application
// default credentials.
func NewGCS(ctx context.Context, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCS{client: client}, nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// Get implements domain.ObjectStore.
func (g *GCS) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := g.Open(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return readAll(r, Location{Scheme: SchemeGCS, Bucket: bucket, Key: key})
}

// Open implements domain.ObjectStore.
func (g *GCS) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Location{Scheme: SchemeGCS, Bucket: bucket, Key: key}, err)
	}
	return r, nil
}
