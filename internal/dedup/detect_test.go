package dedup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photocore/internal/hashcache"
	"photocore/internal/hasher"
	"photocore/internal/models"
	"photocore/internal/progress"
)

func photoWithFile(t *testing.T, dir, name string, contents []byte) *models.LogicalPhoto {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	info, err := os.Stat(path)
	require.NoError(t, err)

	return &models.LogicalPhoto{
		ID: name,
		Primary: models.RawFile{
			Path:       path,
			Name:       name,
			Size:       uint64(info.Size()),
			ModifiedAt: info.ModTime().Unix(),
		},
		Size: uint64(info.Size()),
	}
}

func TestDetectFindsExactDuplicatesAcrossThreePasses(t *testing.T) {
	dir := t.TempDir()
	content := []byte("identical photo bytes for both copies")

	a := photoWithFile(t, dir, "a.jpg", content)
	b := photoWithFile(t, dir, "b.jpg", content)
	c := photoWithFile(t, dir, "c.jpg", []byte("totally different content, different size"))

	h := hasher.New(hashcache.OpenMemory())
	reporter := progress.NewReporter()

	groups := Detect([]*models.LogicalPhoto{a, b, c}, h, reporter, func() bool { return false })

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
	assert.NotNil(t, groups[0].Keeper)
}

func TestDetectReturnsNoGroupsWhenSizesAllDiffer(t *testing.T) {
	dir := t.TempDir()
	a := photoWithFile(t, dir, "a.jpg", []byte("one"))
	b := photoWithFile(t, dir, "b.jpg", []byte("two-two"))

	h := hasher.New(hashcache.OpenMemory())
	reporter := progress.NewReporter()

	groups := Detect([]*models.LogicalPhoto{a, b}, h, reporter, func() bool { return false })
	assert.Empty(t, groups)
}

func TestDetectKeeperIsShortestThenLexicographicPath(t *testing.T) {
	dir := t.TempDir()
	content := []byte("same bytes for keeper selection test")

	longer := photoWithFile(t, dir, "zzz-longer-name.jpg", content)
	shorter := photoWithFile(t, dir, "a.jpg", content)

	h := hasher.New(hashcache.OpenMemory())
	reporter := progress.NewReporter()

	groups := Detect([]*models.LogicalPhoto{longer, shorter}, h, reporter, func() bool { return false })

	require.Len(t, groups, 1)
	assert.Equal(t, shorter.Primary.Path, groups[0].Keeper.Primary.Path)
	assert.True(t, longer.IsDuplicate)
	assert.Equal(t, shorter.ID, longer.DuplicateOf)
	assert.False(t, shorter.IsDuplicate)
}

func TestDetectSkipsCloudPlaceholders(t *testing.T) {
	dir := t.TempDir()
	content := []byte("would-be duplicate content")
	real := photoWithFile(t, dir, "real.jpg", content)

	placeholder := &models.LogicalPhoto{
		ID: "placeholder",
		Primary: models.RawFile{
			Path:               filepath.Join(dir, "placeholder.jpg"),
			Name:               "placeholder.jpg",
			Size:               real.Primary.Size,
			ModifiedAt:         real.Primary.ModifiedAt,
			IsCloudPlaceholder: true,
		},
		Size: real.Primary.Size,
	}

	h := hasher.New(hashcache.OpenMemory())
	reporter := progress.NewReporter()

	groups := Detect([]*models.LogicalPhoto{real, placeholder}, h, reporter, func() bool { return false })
	assert.Empty(t, groups, "a cloud placeholder must never be confirmed as a duplicate")
}
