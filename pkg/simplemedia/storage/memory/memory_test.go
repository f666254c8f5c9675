package memory_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-media/pkg/simplemedia/storage/memory"
)

func TestUploadDownloadRoundtrip(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	err := backend.Upload(ctx, "images/o/x", bytes.NewReader([]byte("payload")), "image/jpeg")
	require.NoError(t, err)

	rc, err := backend.Download(ctx, "images/o/x")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	ct, ok := backend.ContentType("images/o/x")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)
}

func TestDownloadMissingKey(t *testing.T) {
	backend := memory.New()

	_, err := backend.Download(context.Background(), "no-such-key")
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k", bytes.NewReader([]byte("v")), "text/plain"))
	require.NoError(t, backend.Delete(ctx, "k"))

	// Deleting a missing key is a no-op.
	assert.NoError(t, backend.Delete(ctx, "k"))
	assert.Empty(t, backend.Keys())
}

func TestPublicURLIsDeterministic(t *testing.T) {
	backend := memory.New(memory.WithURLPrefix("https://cdn.example.com/"))

	u1, err := backend.PublicURL("videos/o/v")
	require.NoError(t, err)
	u2, err := backend.PublicURL("videos/o/v")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/videos/o/v", u1)
	assert.Equal(t, u1, u2)
}
