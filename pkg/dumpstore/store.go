// Package dumpstore holds every decoded entry for the lifetime of the
// process. The store is the single synchronization point between the
// connection goroutines that append and the consumers that read: entries
// are append-only, identified by a strictly increasing sequence ID, and
// never mutated or removed.
package dumpstore

import (
	"sync"
	"time"

	"github.com/dumpview/dumpview/pkg/dumpentry"
)

// Store is a concurrency-safe, insertion-ordered collection of entries.
type Store struct {
	mu      sync.RWMutex
	entries []*dumpentry.LogEntry
	nextSeq int64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nextSeq: 1,
		stopCh:  make(chan struct{}),
	}
}

// Append assigns the next sequence ID to the entry and makes it visible to
// subsequent reads as one atomic step. Safe for many concurrent callers.
func (s *Store) Append(entry *dumpentry.LogEntry) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.SequenceID = s.nextSeq
	s.nextSeq++
	s.entries = append(s.entries, entry)
	return entry.SequenceID
}

// Snapshot returns a consistent point-in-time view, safe to iterate
// without further synchronization. Entries appear in append order with
// strictly increasing sequence IDs.
func (s *Store) Snapshot() []*dumpentry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*dumpentry.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with the given sequence ID, or nil. Sequence IDs
// are dense (1..Count), so the lookup is positional.
func (s *Store) Get(seq int64) *dumpentry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if seq < 1 || seq > int64(len(s.entries)) {
		return nil
	}
	return s.entries[seq-1]
}

// Subscribe returns a channel that receives a fresh snapshot at the given
// interval, and a cancel function. Slow consumers skip updates rather than
// block appenders.
func (s *Store) Subscribe(interval time.Duration) (<-chan []*dumpentry.LogEntry, func()) {
	ch := make(chan []*dumpentry.LogEntry, 1)
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)

		for {
			select {
			case <-ticker.C:
				select {
				case ch <- s.Snapshot():
				default:
					// Consumer busy, skip this update
				}
			case <-stopCh:
				return
			case <-s.stopCh:
				return
			}
		}
	}()

	cancel := func() { close(stopCh) }
	return ch, cancel
}

// Stop ends all subscriptions. The store itself stays readable.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
