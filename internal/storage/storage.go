// Package storage archives selfies after analysis. Records keep only
// the returned reference; raw bytes never land in the database.
package storage

import "context"

// ImageStore saves and retrieves selfie images.
type ImageStore interface {
	// Save persists the image and returns an opaque reference.
	Save(ctx context.Context, userID, analysisID string, data []byte) (string, error)
	// Load retrieves the image behind a reference.
	Load(ctx context.Context, ref string) ([]byte, error)
}

// Noop discards images. Used when no blob storage is configured; the
// analysis then carries an empty image reference.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Save(ctx context.Context, userID, analysisID string, data []byte) (string, error) {
	return "", nil
}

func (*Noop) Load(ctx context.Context, ref string) ([]byte, error) {
	return nil, nil
}
