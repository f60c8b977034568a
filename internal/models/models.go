// Package models holds the data shapes shared across the scan and
// deduplication engine: raw filesystem records, the logical photos
// collapsed from them, hash cache rows, and the undo log entry shape.
package models

// RawFile is a single filesystem entry discovered by the walker, before
// any collapsing or hashing has happened.
type RawFile struct {
	Path               string
	Name               string
	Extension          string // lower-cased, no leading dot
	Directory          string
	Size               uint64
	ModifiedAt         int64 // seconds since epoch
	IsCloudPlaceholder bool
}

// RelatedKind classifies a file collapsed alongside a LogicalPhoto's primary.
type RelatedKind string

const (
	RelatedSidecar     RelatedKind = "sidecar"
	RelatedJPEGPreview RelatedKind = "jpeg_preview"
	RelatedRaw         RelatedKind = "raw"
)

// RelatedFile is a sidecar, preview, or secondary RAW collapsed alongside
// a LogicalPhoto's primary file.
type RelatedFile struct {
	Path string
	Name string
	Kind RelatedKind
}

// LogicalPhoto is the collapsed, annotated unit the rest of the system
// operates on. Its ID is stable across scans as long as Primary.Path does
// not change.
type LogicalPhoto struct {
	ID            string
	Primary       RawFile
	Related       []RelatedFile
	ThumbnailPath string // empty means absent
	Size          uint64
	ModifiedAt    int64
	Hash          string // empty until computed
	IsDuplicate   bool
	DuplicateOf   string // empty means absent
}

// HasThumbnail reports whether ThumbnailPath was resolved.
func (p *LogicalPhoto) HasThumbnail() bool {
	return p.ThumbnailPath != ""
}

// HasHash reports whether the full content hash has been computed yet.
func (p *LogicalPhoto) HasHash() bool {
	return p.Hash != ""
}

// HashCacheEntry mirrors one row of the persistent hash cache.
type HashCacheEntry struct {
	Path         string `gorm:"primaryKey"`
	Size         uint64 `gorm:"not null"`
	ModifiedAt   int64  `gorm:"not null"`
	TrailingHash string
	FullHash     string
}

// MoveOperation is a single {from, to} pair, the unit an undo entry replays.
type MoveOperation struct {
	From string
	To   string
}

// UndoEntry is an append-only record of a reversible move, keyed by the
// order operations were pushed.
type UndoEntry struct {
	BatchID    string // uuid, correlates this entry with its log/progress messages
	Kind       string // always "move" today
	Timestamp  int64
	Operations []MoveOperation
}

// DuplicateGroup is the output of the third detection pass: two or more
// photos sharing an exact full content hash.
type DuplicateGroup struct {
	Hash    string
	Members []*LogicalPhoto
	Keeper  *LogicalPhoto
}
