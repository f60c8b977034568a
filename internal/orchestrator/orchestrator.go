// Package orchestrator implements C9: composing discover -> collapse ->
// detect into a single scan, driving the progress reporter, and
// serializing overlapping scan requests. Grounded on the teacher's
// Context{Config, DB} pattern (context.go) generalized to hold every
// engine dependency, and main.go's single-command-at-a-time discipline.
package orchestrator

import (
	"sync"
	"sync/atomic"

	"photocore/internal/appconfig"
	"photocore/internal/collapse"
	"photocore/internal/coreerrors"
	"photocore/internal/dedup"
	"photocore/internal/discover"
	"photocore/internal/hashcache"
	"photocore/internal/hasher"
	"photocore/internal/models"
	"photocore/internal/progress"
)

// Orchestrator holds every engine dependency a scan needs.
type Orchestrator struct {
	config   *appconfig.Config
	cache    *hashcache.Cache
	hasher   *hasher.Hasher
	Progress *progress.Reporter

	mu       sync.Mutex
	scanning bool
	cancel   int32

	lastGroups []models.DuplicateGroup
}

// New wires an Orchestrator around cfg, opening (or falling back on) the
// persistent hash cache at cfg.HashCachePath.
func New(cfg *appconfig.Config) *Orchestrator {
	cache := hashcache.Open(cfg.HashCachePath, cfg.IsDebug)
	return &Orchestrator{
		config:   cfg,
		cache:    cache,
		hasher:   hasher.New(cache),
		Progress: progress.NewReporter(),
	}
}

// Cancel requests cooperative cancellation of the in-flight scan, if any.
func (o *Orchestrator) Cancel() {
	atomic.StoreInt32(&o.cancel, 1)
}

func (o *Orchestrator) cancelled() bool {
	return atomic.LoadInt32(&o.cancel) == 1
}

// Scan runs discovery, collapsing, and duplicate detection over roots,
// returning the final annotated photo list. Overlapping calls are
// rejected with ErrScanInProgress rather than interleaved (spec §5).
func (o *Orchestrator) Scan(roots []string) ([]models.LogicalPhoto, error) {
	o.mu.Lock()
	if o.scanning {
		o.mu.Unlock()
		return nil, coreerrors.ErrScanInProgress
	}
	o.scanning = true
	atomic.StoreInt32(&o.cancel, 0)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.scanning = false
		o.mu.Unlock()
	}()

	return o.runScan(roots)
}

func (o *Orchestrator) runScan(roots []string) ([]models.LogicalPhoto, error) {
	o.Progress.Publish(progress.Event{Phase: progress.PhaseStarting, Message: "Starting scan"})

	raw := o.discoverAll(roots)
	if o.cancelled() {
		return o.finishCancelled(nil)
	}

	o.Progress.Publish(progress.Event{Phase: progress.PhaseGrouping, Total: len(raw), Message: "Grouping related files..."})
	photos := collapse.Collapse(raw)

	o.Progress.Publish(progress.Event{Phase: progress.PhaseAnalyzing, Total: len(photos), Message: "Analyzing photos..."})

	pointers := make([]*models.LogicalPhoto, len(photos))
	for i := range photos {
		pointers[i] = &photos[i]
	}

	o.seedSizes(pointers)

	groups := dedup.Detect(pointers, o.hasher, o.Progress, o.cancelled)

	o.mu.Lock()
	o.lastGroups = groups
	o.mu.Unlock()

	if o.cancelled() {
		return o.finishCancelled(photos)
	}

	o.Progress.Publish(progress.Event{Phase: progress.PhaseComplete, Total: len(photos), Current: len(photos), Message: "Scan complete"})

	return photos, nil
}

// LastDuplicateGroups returns the duplicate groups found by the most
// recently completed scan, for callers that want to run SmartSelect
// over them without recomputing hashes.
func (o *Orchestrator) LastDuplicateGroups() []models.DuplicateGroup {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastGroups
}

// seedSizes registers each non-placeholder photo's (size, modified_at)
// with the hash cache before hashing begins. Cloud placeholders are
// skipped and get no cache row, since they are never hashed.
func (o *Orchestrator) seedSizes(photos []*models.LogicalPhoto) {
	for _, p := range photos {
		if p.Primary.IsCloudPlaceholder {
			continue
		}
		_ = o.cache.StoreSize(p.Primary.Path, p.Primary.Size, p.Primary.ModifiedAt)
	}
}

func (o *Orchestrator) finishCancelled(partial []models.LogicalPhoto) ([]models.LogicalPhoto, error) {
	o.Progress.Publish(progress.Event{Phase: progress.PhaseCancelled, Message: "Scan cancelled"})
	return partial, coreerrors.ErrCancelled
}

// discoverAll walks every root, applying the ambient ignore lists,
// consulting the cancellation token between directory entries (spec §5).
func (o *Orchestrator) discoverAll(roots []string) []models.RawFile {
	o.Progress.Publish(progress.Event{Phase: progress.PhaseDiscovery, Total: len(roots), Message: "Discovering files..."})

	var all []models.RawFile
	opts := discover.Options{
		FolderNamesToIgnore: o.config.FolderNamesToIgnore,
		FileNamesToIgnore:   o.config.FileNamesToIgnore,
	}

	for i, root := range roots {
		if o.cancelled() {
			break
		}

		o.Progress.Publish(progress.Event{Phase: progress.PhaseDiscovery, Current: i, Total: len(roots), Message: "Scanning: " + root})

		_ = discover.Walk(root, opts, o.cancelled, func(f models.RawFile) {
			all = append(all, f)
		})
	}

	o.Progress.Publish(progress.Event{Phase: progress.PhaseDiscovery, Current: len(roots), Total: len(roots), Message: "Discovery complete"})

	return all
}
