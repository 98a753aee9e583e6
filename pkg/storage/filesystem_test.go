package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpenPhoto(t *testing.T) {
	store, err := NewPhotoStorage(t.TempDir(), []string{"jpg", "png"})
	require.NoError(t, err)

	rel, err := store.Save("tenant-1", "portrait.PNG", []byte{1, 2, 3})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "tenant-1/photos/photo_tenant-1_"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	file, err := store.Open(rel)
	require.NoError(t, err)
	defer file.Close()

	info, err := file.Stat()
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.Size())
}

func TestSaveFallsBackToJPGForUnknownExtension(t *testing.T) {
	store, err := NewPhotoStorage(t.TempDir(), []string{"jpg"})
	require.NoError(t, err)

	rel, err := store.Save("tenant-1", "malicious.exe", []byte{1})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".jpg"))
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPhotoStorage(dir, nil)
	require.NoError(t, err)

	secret := filepath.Join(dir, "..", "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o600))
	defer os.Remove(secret)

	_, err = store.Open("../secret.txt")
	assert.Error(t, err)

	_, err = store.Open("/etc/passwd")
	assert.Error(t, err)
}

func TestDeleteMissingPhotoIsNoError(t *testing.T) {
	store, err := NewPhotoStorage(t.TempDir(), nil)
	require.NoError(t, err)
	assert.NoError(t, store.Delete("tenant-1/photos/ghost.jpg"))
}
