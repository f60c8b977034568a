// Package discover implements C2: a recursive walk of the enabled root
// paths, filtered to the accepted extension set, emitting RawFile
// records. Grounded on the teacher's crawl.go (filepath.WalkDir,
// per-directory ignore list, level tracking) generalized from a
// database-backed crawl into a plain in-memory emit.
package discover

import (
	"io/fs"
	"path/filepath"
	"strings"

	"photocore/internal/extset"
	"photocore/internal/logging"
	"photocore/internal/models"
)

// Options controls what the walk skips, beyond the always-on hidden-dir
// and "@"-prefixed-dir rules from spec §4.2.
type Options struct {
	FolderNamesToIgnore []string
	FileNamesToIgnore   []string
}

// CancelFunc reports whether the caller has requested cancellation. It is
// consulted between directory entries (spec §5).
type CancelFunc func() bool

// Walk recursively discovers files under root and calls emit for each
// accepted candidate. Unreadable directories or files produce a warning
// via internal/logging and do not abort the walk (spec §4.2/§7).
func Walk(root string, opts Options, cancelled CancelFunc, emit func(models.RawFile)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if cancelled != nil && cancelled() {
			return filepath.SkipAll
		}

		if err != nil {
			logging.Warnf("skipping %q: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != absRoot && shouldSkipDir(name, opts.FolderNamesToIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if isInList(name, opts.FileNamesToIgnore) {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !extset.IsAccepted(ext) {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			logging.Warnf("could not stat %q: %v", path, statErr)
			return nil
		}

		size := uint64(info.Size())
		placeholder := size == 0 && isCloudPlaceholder(path)

		emit(models.RawFile{
			Path:               path,
			Name:               name,
			Extension:          ext,
			Directory:          filepath.Dir(path),
			Size:               size,
			ModifiedAt:         info.ModTime().Unix(),
			IsCloudPlaceholder: placeholder,
		})

		return nil
	})
}

func shouldSkipDir(name string, ignore []string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "@") {
		return true
	}
	return isInList(name, ignore)
}

func isInList(name string, list []string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
