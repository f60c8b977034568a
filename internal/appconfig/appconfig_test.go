package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, int64(500), cfg.BatchSize)
	assert.Equal(t, int64(8), cfg.MaxConcurrentHashOperations)
	assert.Contains(t, cfg.FileNamesToIgnore, ".DS_Store")
}

func TestLoadParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	custom := []byte("debug: true\nbatch_size: 42\nmax_concurrent_hash_operations: 2\n")
	require.NoError(t, os.WriteFile(path, custom, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsDebug)
	assert.Equal(t, int64(42), cfg.BatchSize)
	assert.Equal(t, int64(2), cfg.MaxConcurrentHashOperations)
}
