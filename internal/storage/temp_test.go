package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTempStore(dir)
	require.NoError(t, err)

	path, err := store.Save("abc", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	require.NoError(t, store.Remove(path))
	assert.NoFileExists(t, path)

	// removing twice is fine
	assert.NoError(t, store.Remove(path))
}

func TestTempStore_NeverOverwrites(t *testing.T) {
	store, err := NewTempStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("dup", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Save("dup", strings.NewReader("second"))
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestTempStore_RejectsBadIDs(t *testing.T) {
	store, err := NewTempStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", "a/b"} {
		_, err := store.Save(id, strings.NewReader("x"))
		assert.Error(t, err, "id %q", id)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestTempStore_PartialWriteIsRemoved(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTempStore(dir)
	require.NoError(t, err)

	_, err = store.Save("partial", failingReader{})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "partial.pdf"))
}

func TestNewTempStore_DefaultsToOSTempDir(t *testing.T) {
	store, err := NewTempStore("")
	require.NoError(t, err)
	assert.Equal(t, os.TempDir(), store.Dir())
}
