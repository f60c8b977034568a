// Package hashcache implements C1: a persistent {path -> (size, mtime,
// trailing_hash?, full_hash?)} store, keyed by absolute path, stale on
// any size/mtime mismatch (spec §4.1). Grounded on the teacher's db.go
// (gorm.Open + AutoMigrate) and its build-tag driver swap
// (db_driver.go / db_driver_alternative.go), generalized to a single
// table instead of the teacher's relational file/path graph.
package hashcache

import (
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photocore/internal/coreerrors"
	"photocore/internal/logging"
	"photocore/internal/models"
)

// row is the gorm-mapped shape of one file_hashes record.
type row struct {
	Path         string `gorm:"column:path;primaryKey"`
	Size         int64  `gorm:"column:size;not null"`
	ModifiedAt   int64  `gorm:"column:modified_at;not null"`
	TrailingHash string `gorm:"column:trailing_hash"`
	FullHash     string `gorm:"column:full_hash"`
}

func (row) TableName() string { return "file_hashes" }

// Lookup mirrors HashCache.lookup from spec §4.1.
type Lookup struct {
	TrailingHash string
	FullHash     string
}

// Cache is the persistent-with-memory-fallback hash cache.
type Cache struct {
	db       *gorm.DB
	mu       sync.RWMutex
	memory   map[string]models.HashCacheEntry
	degraded bool
}

var warnOnce = logging.Once()

// Open opens (or creates) the sqlite-backed cache at dbPath. On any
// failure it degrades to an in-memory map so scans still complete,
// logging the degradation exactly once (spec §7 CacheUnavailable).
func Open(dbPath string, debug bool) *Cache {
	level := logger.Silent
	if debug {
		level = logger.Info
	}

	db, err := openDriver(dbPath, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		warnOnce("cache-open", "%v: %v — falling back to an in-memory hash cache", coreerrors.ErrCacheUnavailable, err)
		return &Cache{memory: make(map[string]models.HashCacheEntry), degraded: true}
	}

	if err := db.AutoMigrate(&row{}); err != nil {
		warnOnce("cache-migrate", "%v: %v — falling back to an in-memory hash cache", coreerrors.ErrCacheUnavailable, err)
		return &Cache{memory: make(map[string]models.HashCacheEntry), degraded: true}
	}

	return &Cache{db: db}
}

// OpenMemory builds a cache that never persists, useful for tests and for
// callers that explicitly want no disk state.
func OpenMemory() *Cache {
	return &Cache{memory: make(map[string]models.HashCacheEntry), degraded: true}
}

// Degraded reports whether this cache fell back to memory-only operation.
func (c *Cache) Degraded() bool { return c.degraded }

// Lookup returns the stored hashes for path only when both size and
// modifiedAt match exactly (invariant 5); any mismatch is a miss.
func (c *Cache) Lookup(path string, size uint64, modifiedAt int64) (Lookup, bool) {
	if c.degraded {
		return c.lookupMemory(path, size, modifiedAt)
	}

	var r row
	result := c.db.Where("path = ? AND size = ? AND modified_at = ?", path, int64(size), modifiedAt).First(&r)
	if result.Error != nil {
		return Lookup{}, false
	}

	return Lookup{TrailingHash: r.TrailingHash, FullHash: r.FullHash}, true
}

func (c *Cache) lookupMemory(path string, size uint64, modifiedAt int64) (Lookup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.memory[path]
	if !ok || entry.Size != size || entry.ModifiedAt != modifiedAt {
		return Lookup{}, false
	}

	return Lookup{TrailingHash: entry.TrailingHash, FullHash: entry.FullHash}, true
}

// StoreSize early-registers a file's (size, modified_at) before any hash
// has been computed for it, grounded on original_source/hash_cache.rs's
// set_size — a cloud file's size is known from a directory listing well
// before its bytes are ever read, so this lets a scan seed the cache row
// right after collapsing, without waiting on the hasher. It is a no-op if a
// matching row already exists.
func (c *Cache) StoreSize(path string, size uint64, modifiedAt int64) error {
	return c.Store(path, size, modifiedAt, "", "")
}

// Store upserts the row for path. A present hash overwrites; an absent
// one (empty string) leaves the existing column untouched, so storing
// the full hash later never erases an earlier trailing hash.
func (c *Cache) Store(path string, size uint64, modifiedAt int64, trailingHash, fullHash string) error {
	if c.degraded {
		c.storeMemory(path, size, modifiedAt, trailingHash, fullHash)
		return nil
	}

	return c.db.Transaction(func(tx *gorm.DB) error {
		var existing row
		result := tx.Where("path = ?", path).First(&existing)

		// Absent, or stale relative to (size, modifiedAt): replace the row
		// wholesale rather than merging, so a hash from the previous
		// content never survives under the new (size, modified_at) key
		// (invariant 5).
		if result.Error != nil || existing.Size != int64(size) || existing.ModifiedAt != modifiedAt {
			return tx.Save(&row{
				Path:         path,
				Size:         int64(size),
				ModifiedAt:   modifiedAt,
				TrailingHash: trailingHash,
				FullHash:     fullHash,
			}).Error
		}

		updates := map[string]any{}
		if trailingHash != "" {
			updates["trailing_hash"] = trailingHash
		}
		if fullHash != "" {
			updates["full_hash"] = fullHash
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&row{}).Where("path = ?", path).Updates(updates).Error
	})
}

func (c *Cache) storeMemory(path string, size uint64, modifiedAt int64, trailingHash, fullHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.memory[path]
	if !ok || existing.Size != size || existing.ModifiedAt != modifiedAt {
		c.memory[path] = models.HashCacheEntry{
			Path:         path,
			Size:         size,
			ModifiedAt:   modifiedAt,
			TrailingHash: trailingHash,
			FullHash:     fullHash,
		}
		return
	}

	if trailingHash != "" {
		existing.TrailingHash = trailingHash
	}
	if fullHash != "" {
		existing.FullHash = fullHash
	}
	c.memory[path] = existing
}
