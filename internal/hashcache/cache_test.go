package hashcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheMissBeforeStore(t *testing.T) {
	c := OpenMemory()

	_, ok := c.Lookup("/a/b.jpg", 100, 1)
	assert.False(t, ok)
}

func TestMemoryCacheHitAfterStore(t *testing.T) {
	c := OpenMemory()

	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "trailing123", ""))

	got, ok := c.Lookup("/a/b.jpg", 100, 1)
	require.True(t, ok)
	assert.Equal(t, "trailing123", got.TrailingHash)
	assert.Empty(t, got.FullHash)
}

func TestMemoryCacheStaleOnSizeMismatchIsAMiss(t *testing.T) {
	c := OpenMemory()

	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "trailing123", "full456"))

	_, ok := c.Lookup("/a/b.jpg", 200, 1)
	assert.False(t, ok, "a size mismatch must invalidate the cached entry")
}

func TestMemoryCacheStaleOnModifiedAtMismatchIsAMiss(t *testing.T) {
	c := OpenMemory()

	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "trailing123", "full456"))

	_, ok := c.Lookup("/a/b.jpg", 100, 2)
	assert.False(t, ok, "a modified_at mismatch must invalidate the cached entry")
}

func TestMemoryCacheStoringFullHashDoesNotEraseTrailingHash(t *testing.T) {
	c := OpenMemory()

	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "trailing123", ""))
	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "", "full456"))

	got, ok := c.Lookup("/a/b.jpg", 100, 1)
	require.True(t, ok)
	assert.Equal(t, "trailing123", got.TrailingHash)
	assert.Equal(t, "full456", got.FullHash)
}

func TestMemoryCacheStaleEntryIsReplacedNotMerged(t *testing.T) {
	c := OpenMemory()

	require.NoError(t, c.Store("/a/b.jpg", 100, 1, "trailing-old", "full-old"))

	// The file changed: new size and modified_at, only a trailing hash
	// computed so far. The stale full hash must not leak through.
	require.NoError(t, c.Store("/a/b.jpg", 200, 2, "trailing-new", ""))

	got, ok := c.Lookup("/a/b.jpg", 200, 2)
	require.True(t, ok)
	assert.Equal(t, "trailing-new", got.TrailingHash)
	assert.Empty(t, got.FullHash, "a stale full hash from the previous version must not survive")
}

func TestOpenFallsBackToMemoryOnUnwritableDBPath(t *testing.T) {
	dir := t.TempDir()
	// A directory can never be opened as a sqlite file: this forces the
	// degrade-to-memory path deterministically without touching CGO.
	badPath := filepath.Join(dir, "not-a-file")
	require.NoError(t, os.MkdirAll(badPath, 0o755))

	c := Open(badPath, false)
	assert.True(t, c.Degraded())

	require.NoError(t, c.Store("/a/b.jpg", 1, 1, "x", ""))
	got, ok := c.Lookup("/a/b.jpg", 1, 1)
	require.True(t, ok)
	assert.Equal(t, "x", got.TrailingHash)
}
