// Package dedup implements C5: the three-pass duplicate detector (size
// -> trailing hash -> full hash), coordinated with the hash cache and
// reporting progress at phase boundaries and within the two hashing
// passes. Concurrency across sub-buckets is bounded with
// golang.org/x/sync/errgroup's SetLimit, grounded on the
// errgroup.WithContext pattern used for bounded fan-out in
// Starford96-kenaz's sync engine; the teacher's own
// utils/task.go TaskOrchestrator (progress bar + mutex + WaitGroup) is
// kept as the shape the CLI's progress subscriber renders against.
package dedup

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"photocore/internal/hasher"
	"photocore/internal/models"
	"photocore/internal/progress"
)

const maxWorkerPoolSize = 8

// CancelFunc reports whether the caller has requested cancellation.
type CancelFunc func() bool

// Detect runs the three passes over photos, mutating each photo's Hash,
// IsDuplicate, and DuplicateOf in place, and returns the confirmed
// duplicate groups (keeper already assigned).
func Detect(photos []*models.LogicalPhoto, h *hasher.Hasher, reporter *progress.Reporter, cancelled CancelFunc) []models.DuplicateGroup {
	total := len(photos)

	reporter.Publish(progress.Event{Phase: progress.PhaseDuplicates, Current: 0, Total: total, Message: "Finding potential duplicates by file size..."})

	sizeBuckets := bucketBy(photos, func(p *models.LogicalPhoto) uint64 { return p.Primary.Size })
	candidateBuckets := onlyMultiples(sizeBuckets)

	if len(candidateBuckets) == 0 {
		reporter.Publish(progress.Event{Phase: progress.PhaseDuplicates, Current: total, Total: total, Message: "No duplicates found"})
		return nil
	}

	trailingBuckets := runTrailingHashPass(candidateBuckets, h, reporter, cancelled)

	if len(trailingBuckets) == 0 {
		reporter.Publish(progress.Event{Phase: progress.PhaseDuplicates, Current: total, Total: total, Message: "No duplicates found (trailing hashes differ)"})
		return nil
	}

	groups := runFullHashPass(trailingBuckets, h, reporter, cancelled)

	assignKeepers(groups)

	reporter.Publish(progress.Event{Phase: progress.PhaseDuplicates, Current: total, Total: total, Message: "Confirmed duplicates"})

	return groups
}

func bucketBy[K comparable](photos []*models.LogicalPhoto, key func(*models.LogicalPhoto) K) map[K][]*models.LogicalPhoto {
	buckets := make(map[K][]*models.LogicalPhoto)
	for _, p := range photos {
		k := key(p)
		buckets[k] = append(buckets[k], p)
	}
	return buckets
}

func onlyMultiples[K comparable](buckets map[K][]*models.LogicalPhoto) [][]*models.LogicalPhoto {
	var out [][]*models.LogicalPhoto
	for _, members := range buckets {
		if len(members) >= 2 {
			out = append(out, members)
		}
	}
	return out
}

// runTrailingHashPass is pass B: compute a trailing hash for every
// non-placeholder member of each candidate bucket, in parallel across
// buckets bounded by workerLimit(), then sub-partition by (size,
// trailing hash). Placeholders never enter candidacy.
func runTrailingHashPass(buckets [][]*models.LogicalPhoto, h *hasher.Hasher, reporter *progress.Reporter, cancelled CancelFunc) [][]*models.LogicalPhoto {
	total := 0
	for _, b := range buckets {
		total += len(b)
	}

	reporter.Publish(progress.Event{Phase: progress.PhaseTrailingHash, Current: 0, Total: total, Message: "Computing trailing hashes..."})

	var done int64
	var mu sync.Mutex
	type key struct {
		size uint64
		hash string
	}
	subBuckets := make(map[key][]*models.LogicalPhoto)

	g := new(errgroup.Group)
	g.SetLimit(workerLimit())

	for _, bucket := range buckets {
		bucket := bucket
		g.Go(func() error {
			for _, photo := range bucket {
				if cancelled != nil && cancelled() {
					return nil
				}

				if photo.Primary.IsCloudPlaceholder {
					continue
				}

				trailing, err := h.TrailingHash(photo.Primary.Path, photo.Primary.Size, photo.Primary.ModifiedAt, false)

				n := atomic.AddInt64(&done, 1)
				if n%25 == 0 || int(n) == total {
					reporter.Publish(progress.Event{Phase: progress.PhaseTrailingHash, Current: int(n), Total: total, Message: "Computing trailing hashes..."})
				}

				if err != nil {
					continue
				}

				mu.Lock()
				k := key{size: photo.Primary.Size, hash: trailing}
				subBuckets[k] = append(subBuckets[k], photo)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return onlyMultiples(subBuckets)
}

// runFullHashPass is pass C: compute a full hash for every member of
// each surviving sub-bucket, in parallel bounded by workerLimit(), then
// partition by full hash into confirmed duplicate groups.
func runFullHashPass(buckets [][]*models.LogicalPhoto, h *hasher.Hasher, reporter *progress.Reporter, cancelled CancelFunc) []models.DuplicateGroup {
	total := 0
	for _, b := range buckets {
		total += len(b)
	}

	reporter.Publish(progress.Event{Phase: progress.PhaseHashing, Current: 0, Total: total, Message: "Confirming with full content hash..."})

	var done int64
	var mu sync.Mutex
	hashGroups := make(map[string][]*models.LogicalPhoto)

	g := new(errgroup.Group)
	g.SetLimit(workerLimit())

	for _, bucket := range buckets {
		bucket := bucket
		g.Go(func() error {
			for _, photo := range bucket {
				if cancelled != nil && cancelled() {
					return nil
				}

				full, err := h.FullHash(photo.Primary.Path, photo.Primary.Size, photo.Primary.ModifiedAt, photo.Primary.IsCloudPlaceholder)

				n := atomic.AddInt64(&done, 1)
				if n%25 == 0 || int(n) == total {
					reporter.Publish(progress.Event{Phase: progress.PhaseHashing, Current: int(n), Total: total, Message: "Confirming with full content hash..."})
				}

				if err != nil {
					continue
				}

				photo.Hash = full

				mu.Lock()
				hashGroups[full] = append(hashGroups[full], photo)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var groups []models.DuplicateGroup
	for hash, members := range hashGroups {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, models.DuplicateGroup{Hash: hash, Members: members})
	}

	return groups
}

// assignKeepers picks, per group, the member with the shortest
// primary.path length (ties broken lexicographically), marks every
// other member IsDuplicate with DuplicateOf set to the keeper's id
// (spec §4.5's "keeper selection").
func assignKeepers(groups []models.DuplicateGroup) {
	for i := range groups {
		members := groups[i].Members
		sort.Slice(members, func(a, b int) bool {
			pa, pb := members[a].Primary.Path, members[b].Primary.Path
			if len(pa) != len(pb) {
				return len(pa) < len(pb)
			}
			return pa < pb
		})

		keeper := members[0]
		groups[i].Keeper = keeper

		for _, m := range members {
			if m == keeper {
				continue
			}
			m.IsDuplicate = true
			m.DuplicateOf = keeper.ID
		}
	}
}

func workerLimit() int {
	n := runtime.NumCPU()
	if n > maxWorkerPoolSize {
		n = maxWorkerPoolSize
	}
	if n < 1 {
		n = 1
	}
	return n
}
