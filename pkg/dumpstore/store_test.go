package dumpstore

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dumpview/dumpview/pkg/dumpentry"
)

func testEntry(label string) *dumpentry.LogEntry {
	return &dumpentry.LogEntry{
		ReceivedAt: time.Now(),
		Label:      label,
		SourceTime: "t",
	}
}

func TestAppendAssignsSequenceIDs(t *testing.T) {
	s := NewStore()

	for i := 1; i <= 5; i++ {
		seq := s.Append(testEntry(fmt.Sprintf("e%d", i)))
		if seq != int64(i) {
			t.Errorf("append %d: expected sequence %d, got %d", i, i, seq)
		}
	}

	if s.Count() != 5 {
		t.Errorf("expected count 5, got %d", s.Count())
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewStore()

	const writers = 8
	const perWriter = 250
	const total = writers * perWriter

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Append(testEntry(fmt.Sprintf("w%d-%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	if s.Count() != total {
		t.Fatalf("expected %d entries, got %d", total, s.Count())
	}

	// Sequence IDs must be exactly 1..total in append order.
	snap := s.Snapshot()
	if len(snap) != total {
		t.Fatalf("snapshot size %d, expected %d", len(snap), total)
	}
	for i, e := range snap {
		if e.SequenceID != int64(i+1) {
			t.Fatalf("entry %d has sequence %d, expected %d", i, e.SequenceID, i+1)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.Append(testEntry("a"))

	snap := s.Snapshot()
	s.Append(testEntry("b"))

	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later append: %d entries", len(snap))
	}
	if len(s.Snapshot()) != 2 {
		t.Errorf("expected 2 entries in fresh snapshot")
	}
}

func TestSnapshotDuringConcurrentAppends(t *testing.T) {
	s := NewStore()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.Append(testEntry("x"))
		}
	}()

	// Every snapshot taken while appends race must be prefix-consistent.
	for i := 0; i < 50; i++ {
		snap := s.Snapshot()
		for j, e := range snap {
			if e.SequenceID != int64(j+1) {
				t.Fatalf("snapshot not prefix-consistent at %d: seq %d", j, e.SequenceID)
			}
		}
	}
	<-done
}

func TestGet(t *testing.T) {
	s := NewStore()
	s.Append(testEntry("first"))
	s.Append(testEntry("second"))

	if e := s.Get(2); e == nil || e.Label != "second" {
		t.Errorf("Get(2) = %+v, expected second", e)
	}
	if e := s.Get(0); e != nil {
		t.Errorf("Get(0) should be nil, got %+v", e)
	}
	if e := s.Get(3); e != nil {
		t.Errorf("Get(3) should be nil, got %+v", e)
	}
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	s.Append(testEntry("a"))

	ch, cancel := s.Subscribe(10 * time.Millisecond)
	defer cancel()

	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Errorf("expected 1 entry in subscription snapshot, got %d", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("no subscription update within 1s")
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe(5 * time.Millisecond)
	cancel()

	// Channel must close shortly after cancel.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel not closed after cancel")
		}
	}
}

func TestStopEndsSubscriptions(t *testing.T) {
	s := NewStore()
	ch, _ := s.Subscribe(5 * time.Millisecond)
	s.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel not closed after store stop")
		}
	}
}
