package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"catalog-kit/internal/domain"
)

// Compile-time check: Azure implements domain.ObjectStore.
var _ domain.ObjectStore = (*Azure)(nil)

// Azure reads blobs from Azure Blob Storage. Buckets are containers.
type Azure struct {
	client *azblob.Client
}

// NewAzure creates an Azure store using shared-key authentication. With an
// empty accountKey the account is accessed anonymously (public containers).
func NewAzure(accountName, accountKey string) (*Azure, error) {
	if accountName == "" {
		return nil, domain.ErrValidation("Azure storage account name is required")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)

	if accountKey == "" {
		client, err := azblob.NewClientWithNoCredential(serviceURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure blob client: %w", err)
		}
		return &Azure{client: client}, nil
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &Azure{client: client}, nil
}

// Get implements domain.ObjectStore.
func (a *Azure) Get(ctx context.Context, container, key string) ([]byte, error) {
	r, err := a.Open(ctx, container, key)
	if err != nil {
		return nil, err
	}
	return readAll(r, Location{Scheme: SchemeAzure, Bucket: container, Key: key})
}

// Open implements domain.ObjectStore.
func (a *Azure) Open(ctx context.Context, container, key string) (io.ReadCloser, error) {
	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Location{Scheme: SchemeAzure, Bucket: container, Key: key}, err)
	}
	return resp.Body, nil
}
