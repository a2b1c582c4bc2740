package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStorage_UploadDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalImageStorage(dir, "http://localhost:4000/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := storage.Upload(ctx, "products/a.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/uploads/products/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "products", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	key, ok := storage.KeyFromURL(url)
	require.True(t, ok)
	require.NoError(t, storage.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "products", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine
	assert.NoError(t, storage.Delete(ctx, key))
}

func TestLocalImageStorage_RejectsEscapingKeys(t *testing.T) {
	storage, err := NewLocalImageStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
		_, err := storage.Upload(context.Background(), key, strings.NewReader("x"), 1, "image/png")
		assert.Error(t, err, key)
	}
}

func TestNewLocalImageStorage_RequiresDir(t *testing.T) {
	_, err := NewLocalImageStorage("", "/uploads")
	assert.ErrorContains(t, err, "directory is required")
}
