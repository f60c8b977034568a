// Package progress implements C6: a publish-only broadcaster of
// {phase, current, total, message} events. Modeled as a typed channel
// with multiple subscribers (spec §9 "Cross-thread progress
// publishing"), replacing the teacher's single-writer
// ConsoleAndLogPrintf idiom with a proper pub/sub so a presentation
// layer can tap the same stream a CLI progress bar consumes.
package progress

import "sync"

// Phase is one of the closed set of scan/delete phases from spec §4.5/§6.
type Phase string

const (
	PhaseStarting     Phase = "starting"
	PhaseDiscovery    Phase = "discovery"
	PhaseGrouping     Phase = "grouping"
	PhaseAnalyzing    Phase = "analyzing"
	PhaseTrailingHash Phase = "trailing_hash"
	PhaseHashing      Phase = "hashing"
	PhaseDuplicates   Phase = "duplicates"
	PhasePreparing    Phase = "preparing"
	PhaseRendering    Phase = "rendering"
	PhaseComplete     Phase = "complete"
	PhaseCancelled    Phase = "cancelled"
	PhaseDeleting     Phase = "deleting"
)

// boundaryPhases never get dropped under back-pressure, even for a slow subscriber.
var boundaryPhases = map[Phase]bool{
	PhaseStarting: true, PhaseDiscovery: true, PhaseGrouping: true,
	PhaseAnalyzing: true, PhaseDuplicates: true, PhasePreparing: true,
	PhaseRendering: true, PhaseComplete: true, PhaseCancelled: true,
}

// Event is the wire shape from spec §6's scan-progress payload.
type Event struct {
	Phase   Phase
	Current int
	Total   int
	Message string
}

// DeleteEvent is the delete-progress payload from spec §6.
type DeleteEvent struct {
	Current      int
	Total        int
	CurrentFile  string
	DeletedBytes uint64
}

// DeleteResult is the terminal delete-result payload from spec §6.
// ShowUntil is a unix-millis hint for how long the UI should keep a
// "N files deleted" toast visible.
type DeleteResult struct {
	DeletedCount int
	FailedCount  int
	TotalBytes   uint64
	ShowUntil    int64
}

const subscriberBuffer = 8

type subscriber struct {
	events  chan Event
	deletes chan DeleteEvent
}

// Reporter fans events out to every subscriber. Zero value is ready to use.
type Reporter struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
}

// NewReporter builds an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{subs: make(map[int]*subscriber)}
}

// Subscribe registers a new listener and returns a token for Unsubscribe.
func (r *Reporter) Subscribe() (int, <-chan Event, <-chan DeleteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subs == nil {
		r.subs = make(map[int]*subscriber)
	}

	id := r.next
	r.next++
	sub := &subscriber{
		events:  make(chan Event, subscriberBuffer),
		deletes: make(chan DeleteEvent, subscriberBuffer),
	}
	r.subs[id] = sub

	return id, sub.events, sub.deletes
}

// Unsubscribe removes and closes a listener's channels.
func (r *Reporter) Unsubscribe(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subs[id]; ok {
		close(sub.events)
		close(sub.deletes)
		delete(r.subs, id)
	}
}

// Publish emits ev to every subscriber. Boundary-phase events block
// until the subscriber's buffer has room, to guarantee delivery; other
// (intra-phase) events are dropped
// for a subscriber whose buffer is already full (spec §4.6 back-pressure policy).
func (r *Reporter) Publish(ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		if boundaryPhases[ev.Phase] {
			sub.events <- ev
			continue
		}

		select {
		case sub.events <- ev:
		default:
		}
	}
}

// PublishDelete emits a delete-progress event to every subscriber,
// dropping for any subscriber whose buffer is full.
func (r *Reporter) PublishDelete(ev DeleteEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		select {
		case sub.deletes <- ev:
		default:
		}
	}
}
