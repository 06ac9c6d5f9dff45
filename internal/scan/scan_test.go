package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("photo.jpg"))
	assert.True(t, IsImage("photo.JPEG"))
	assert.True(t, IsImage("/some/dir/photo.Png"))
	assert.True(t, IsImage("anim.gif"))
	assert.True(t, IsImage("pic.webp"))
	assert.True(t, IsImage("scan.BMP"))

	assert.False(t, IsImage("movie.mp4"))
	assert.False(t, IsImage("notes.txt"))
	assert.False(t, IsImage("archive.jpg.zip"))
	assert.False(t, IsImage("noextension"))
}

func TestImagesWalksRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vacation")
	require.NoError(t, os.Mkdir(sub, 0755))

	for _, name := range []string{"a.jpg", "b.txt", "vacation/c.png", "vacation/d.doc"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	got := Images([]string{dir})
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), got[0])
	assert.Equal(t, filepath.Join(sub, "c.png"), got[1])
}

func TestImagesMissingFolderSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644))

	got := Images([]string{"/does/not/exist", dir})
	assert.Len(t, got, 1)
}

func TestCount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.webp"), []byte("x"), 0644))

	assert.Equal(t, 2, Count(dir))
}
