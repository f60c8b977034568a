package collapse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"photocore/internal/models"
)

func rawFile(dir, name string, size uint64) models.RawFile {
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			ext = strings.ToLower(name[i+1:])
			break
		}
	}
	return models.RawFile{
		Path:      dir + "/" + name,
		Name:      name,
		Extension: ext,
		Directory: dir,
		Size:      size,
	}
}

func TestCollapseGroupsRawAndJpegPreview(t *testing.T) {
	files := []models.RawFile{
		rawFile("/photos", "IMG_0001.CR2", 100),
		rawFile("/photos", "IMG_0001.JPG", 50),
		rawFile("/photos", "IMG_0001.xmp", 1),
	}

	photos := Collapse(files)

	require := assert.New(t)
	require.Len(photos, 1)

	photo := photos[0]
	require.Equal("/photos/IMG_0001.CR2", photo.Primary.Path)
	require.Equal("/photos/IMG_0001.JPG", photo.ThumbnailPath)
	require.Len(photo.Related, 2)
}

func TestCollapsePicksStandardRasterWhenNoRaw(t *testing.T) {
	files := []models.RawFile{
		rawFile("/photos", "vacation.jpg", 200),
		rawFile("/photos", "vacation.xmp", 1),
	}

	photos := Collapse(files)

	assert.Len(t, photos, 1)
	assert.Equal(t, "/photos/vacation.jpg", photos[0].Primary.Path)
	assert.Equal(t, "/photos/vacation.jpg", photos[0].ThumbnailPath)
}

func TestCollapseDiscardsSidecarOnlyGroup(t *testing.T) {
	files := []models.RawFile{
		rawFile("/photos", "orphan.xmp", 1),
	}

	photos := Collapse(files)

	assert.Empty(t, photos)
}

func TestCollapseNeverMergesAcrossDirectories(t *testing.T) {
	files := []models.RawFile{
		rawFile("/photos", "shot.cr2", 10),
		rawFile("/photos2", "shot.CR2", 10),
	}

	// Different directories never collapse together.
	photos := Collapse(files)
	assert.Len(t, photos, 2)
}

func TestCollapseIDIsStableForSamePath(t *testing.T) {
	files := []models.RawFile{rawFile("/photos", "a.jpg", 10)}

	first := Collapse(files)
	second := Collapse(files)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEmpty(t, first[0].ID)
}
