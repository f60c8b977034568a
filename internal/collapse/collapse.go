// Package collapse implements C3: grouping raw files that share a base
// name within a single directory into one LogicalPhoto, choosing a
// primary and classifying the rest as related. Grounded on the
// batch-grouping map idiom the teacher uses in hash_files.go/type_files.go
// (accumulate into a map keyed by a derived string, then resolve).
package collapse

import (
	"crypto/sha256"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"

	"photocore/internal/extset"
	"photocore/internal/models"
)

// key identifies a base-name group: directory plus lower-cased stem.
type key struct {
	directory string
	stem      string
}

// Collapse groups files and returns one LogicalPhoto per group that has
// a resolvable primary. Groups with only a sidecar are discarded (spec §4.3).
func Collapse(files []models.RawFile) []models.LogicalPhoto {
	groups := make(map[key][]models.RawFile)
	var order []key

	for _, f := range files {
		k := key{directory: f.Directory, stem: strings.ToLower(baseName(f.Name))}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}

	var photos []models.LogicalPhoto
	for _, k := range order {
		if photo, ok := collapseGroup(groups[k]); ok {
			photos = append(photos, photo)
		}
	}

	return photos
}

func collapseGroup(members []models.RawFile) (models.LogicalPhoto, bool) {
	primary, rest, ok := choosePrimary(members)
	if !ok {
		return models.LogicalPhoto{}, false
	}

	photo := models.LogicalPhoto{
		ID:         deriveID(primary.Path),
		Primary:    primary,
		Size:       primary.Size,
		ModifiedAt: primary.ModifiedAt,
	}

	if extset.IsStandard(primary.Extension) {
		photo.ThumbnailPath = primary.Path
	}

	for _, m := range rest {
		switch {
		case extset.IsSidecar(m.Extension):
			photo.Related = append(photo.Related, models.RelatedFile{Path: m.Path, Name: m.Name, Kind: models.RelatedSidecar})
		case extset.IsRaw(primary.Extension) && (m.Extension == "jpg" || m.Extension == "jpeg"):
			photo.Related = append(photo.Related, models.RelatedFile{Path: m.Path, Name: m.Name, Kind: models.RelatedJPEGPreview})
			if photo.ThumbnailPath == "" {
				photo.ThumbnailPath = m.Path
			}
		case extset.IsRaw(m.Extension):
			photo.Related = append(photo.Related, models.RelatedFile{Path: m.Path, Name: m.Name, Kind: models.RelatedRaw})
		}
	}

	return photo, true
}

// choosePrimary applies the priority order from spec §4.3: any RAW wins
// (ties by lexicographic path), else any standard raster wins (same tie
// break), else the group has no photo.
func choosePrimary(members []models.RawFile) (models.RawFile, []models.RawFile, bool) {
	primary, found := pickBest(members, extset.IsRaw)
	if !found {
		primary, found = pickBest(members, extset.IsStandard)
	}
	if !found {
		return models.RawFile{}, nil, false
	}

	rest := make([]models.RawFile, 0, len(members)-1)
	for _, m := range members {
		if m.Path != primary.Path {
			rest = append(rest, m)
		}
	}

	return primary, rest, true
}

func pickBest(members []models.RawFile, match func(ext string) bool) (models.RawFile, bool) {
	var candidates []models.RawFile
	for _, m := range members {
		if match(m.Extension) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return models.RawFile{}, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
	return candidates[0], true
}

func baseName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// deriveID computes a stable per-scan identifier from a primary path:
// base58(sha256(path)), reusing the teacher's hash.go pairing of a
// content hash with base58 encoding for compact, stable identifiers.
func deriveID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return base58.Encode(sum[:])
}
