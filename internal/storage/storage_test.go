package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/config"
)

func TestObjectName(t *testing.T) {
	name, err := ObjectName("avatars", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "avatars/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	name, err = ObjectName("avatars", "IMAGE/JPEG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	_, err = ObjectName("avatars", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, err = ObjectName("avatars", "")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(config.UploadConfig{Dir: dir, URLPrefix: "/uploads/"})

	url, err := store.Save(context.Background(), "avatars", "image/png", 4, strings.NewReader("data"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/"))

	rel := strings.TrimPrefix(url, "/uploads/")
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestLocalStorageRejectsNonImage(t *testing.T) {
	store := NewLocalStorage(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})

	_, err := store.Save(context.Background(), "avatars", "text/html", 4, strings.NewReader("<p>"))
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestLocalStorageHonorsContextCancellation(t *testing.T) {
	store := NewLocalStorage(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "avatars", "image/png", 4, strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStoragePicksLocalWithoutEndpoint(t *testing.T) {
	store, err := NewStorage(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)
}
