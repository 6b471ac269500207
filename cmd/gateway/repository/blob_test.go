package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediabridge/gateway/common/logger"
)

// Malformed identifiers must be rejected before any storage round-trip;
// both stores are constructed without a live backend on purpose.

func TestPostgresFetch_MalformedFID(t *testing.T) {
	store := NewPostgresBlobStore(nil, "mp3s", logger.New("error", "json"))

	for _, fid := range []string{"not-a-uuid", "123", "../etc/passwd", ""} {
		_, err := store.Fetch(context.Background(), fid)
		require.Error(t, err, "fid %q", fid)
		assert.ErrorIs(t, err, ErrBlobNotFound, "fid %q", fid)
	}
}

func TestS3Fetch_MalformedFID(t *testing.T) {
	store := NewS3BlobStore(nil, "mp3s", logger.New("error", "json"))

	_, err := store.Fetch(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
