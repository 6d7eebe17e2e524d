package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	store := NewNoop()
	ctx := context.Background()

	ref, err := store.Save(ctx, "user-1", "analysis-1", []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.Empty(t, ref)

	data, err := store.Load(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestBlobName(t *testing.T) {
	assert.Equal(t, "user-1/analysis-9.jpg", blobName("user-1", "analysis-9"))
}

func TestNewAzureStorage_BadKey(t *testing.T) {
	// Shared key credentials must be base64; garbage fails fast.
	_, err := NewAzureStorage("account", "not-base64!!!", "selfies")
	require.Error(t, err)
}
