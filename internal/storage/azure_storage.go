package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type azureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage creates a blob-backed image store using shared key
// credentials.
func NewAzureStorage(accountName, accountKey, container string) (ImageStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}

	return &azureStorage{client: client, container: container}, nil
}

func (s *azureStorage) Save(ctx context.Context, userID, analysisID string, data []byte) (string, error) {
	blobName := blobName(userID, analysisID)

	_, err := s.client.UploadStream(ctx, s.container, blobName, bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("upload selfie: %w", err)
	}

	return blobName, nil
}

func (s *azureStorage) Load(ctx context.Context, ref string) ([]byte, error) {
	response, err := s.client.DownloadStream(ctx, s.container, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("download selfie: %w", err)
	}

	retryReader := response.Body
	defer retryReader.Close()

	data, err := io.ReadAll(retryReader)
	if err != nil {
		return nil, fmt.Errorf("read selfie: %w", err)
	}

	return data, nil
}

// blobName shards by user so per-user cleanup stays a prefix
// operation.
func blobName(userID, analysisID string) string {
	return path.Join(userID, analysisID+".jpg")
}
