package imagestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(filepath.Join(dir, "nested"), "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "../escape", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "escape.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("connection reset")
}

func TestLocalSaveRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "broken", &failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken.jpg"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
