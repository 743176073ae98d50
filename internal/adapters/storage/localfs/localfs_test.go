package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	store := New(t.TempDir())

	ref, err := store.Save(context.Background(), "photo.JPG", []byte("img"), "Linen Shirt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref.PublicID, ".jpg"))
	assert.Equal(t, "Linen Shirt", ref.Alt)

	data, err := os.ReadFile(filepath.Join(store.dir, ref.PublicID))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, store.Delete(context.Background(), ref.PublicID))
	_, err = os.Stat(filepath.Join(store.dir, ref.PublicID))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Save(context.Background(), "malware.exe", []byte{1}, "")
	require.Error(t, err)
}

func TestDeleteRefusesPaths(t *testing.T) {
	store := New(t.TempDir())
	require.Error(t, store.Delete(context.Background(), "../etc/passwd"))
	require.NoError(t, store.Delete(context.Background(), ""))
	require.NoError(t, store.Delete(context.Background(), "missing.jpg"))
}
