package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photocore/internal/appconfig"
	"photocore/internal/coreerrors"
)

func testConfig(t *testing.T) *appconfig.Config {
	return &appconfig.Config{
		BatchSize:                   100,
		MaxConcurrentHashOperations: 4,
		ProgressUpdateEvery:         25,
		HashCachePath:               filepath.Join(t.TempDir(), "cache.sqlite"),
	}
}

func TestScanEndToEndFindsDuplicatesAcrossDiscoverCollapseDetect(t *testing.T) {
	root := t.TempDir()
	content := []byte("duplicate content shared by two raw files")

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cr2"), content, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.cr2"), content, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "unique.jpg"), []byte("no duplicate for this one"), 0o600))

	orch := New(testConfig(t))

	photos, err := orch.Scan([]string{root})
	require.NoError(t, err)
	require.Len(t, photos, 3)

	var duplicateCount int
	for _, p := range photos {
		if p.IsDuplicate {
			duplicateCount++
		}
	}
	assert.Equal(t, 1, duplicateCount)

	groups := orch.LastDuplicateGroups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}

func TestScanRejectsOverlappingRequests(t *testing.T) {
	orch := New(testConfig(t))

	orch.mu.Lock()
	orch.scanning = true
	orch.mu.Unlock()

	_, err := orch.Scan([]string{t.TempDir()})
	assert.ErrorIs(t, err, coreerrors.ErrScanInProgress)
}
