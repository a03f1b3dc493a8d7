package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigbrain/internal/domain"
)

func newTestImageStore(t *testing.T) (*ImageStore, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "images")
	s, err := NewImageStore(dir, nil)
	require.NoError(t, err)
	return s, dir
}

func TestNewImageStoreCreatesDirectory(t *testing.T) {
	_, dir := newTestImageStore(t)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestImageStoreSave(t *testing.T) {
	s, dir := newTestImageStore(t)
	data := []byte{0x89, 0x50, 0x4e, 0x47}

	path, err := s.Save(data, "png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir), "returned path should live under the store directory")
	assert.True(t, strings.HasSuffix(path, ".png"))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestImageStoreSaveGeneratesUniqueNames(t *testing.T) {
	s, _ := newTestImageStore(t)

	first, err := s.Save([]byte("a"), "jpg")
	require.NoError(t, err)
	second, err := s.Save([]byte("b"), "jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestImageStoreSaveRejectsUnknownType(t *testing.T) {
	s, dir := newTestImageStore(t)

	for _, bad := range []string{"bmp", "svg", "PNG", ""} {
		_, err := s.Save([]byte("data"), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidImageType, "type %q must be rejected", bad)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected saves must not write files")
}

func TestImageStoreSaveAllowList(t *testing.T) {
	s, _ := newTestImageStore(t)

	for _, ok := range []string{"png", "jpg", "jpeg", "gif"} {
		_, err := s.Save([]byte("data"), ok)
		assert.NoError(t, err, "type %q is on the allow-list", ok)
	}
}
