package issuetree

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultQuietPeriod is how long ExpandSync waits after the last recorded
// event before flushing.
const DefaultQuietPeriod = 300 * time.Millisecond

// ExpandSync coalesces expand/collapse events into batched writes of the
// canonical tree's expanded flags. Events arrive one per displayed
// occurrence, already carrying a namespaced ID; the namespace is stripped on
// record. Within a quiet window the last write per node wins, and a burst
// costs exactly one document read and one write.
//
// Close flushes whatever is pending, so state recorded just before shutdown
// is never silently lost to an open debounce window.
type ExpandSync struct {
	store    *Store
	notifier Notifier
	quiet    time.Duration
	log      *logrus.Logger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	closed  bool
}

// NewExpandSync creates a synchronizer flushing after quiet. A zero quiet
// selects DefaultQuietPeriod. notifier may be nil.
func NewExpandSync(store *Store, notifier Notifier, quiet time.Duration, log *logrus.Logger) *ExpandSync {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExpandSync{
		store:    store,
		notifier: notifier,
		quiet:    quiet,
		log:      log,
		pending:  make(map[string]bool),
	}
}

// Record notes the desired expanded state for one displayed occurrence and
// schedules a coalesced flush.
func (s *ExpandSync) Record(id string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.pending[StripFocusedID(id)] = expanded

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, func() {
		if err := s.Flush(); err != nil {
			s.log.Warnf("flush expanded state: %v", err)
		}
	})
}

// Flush applies every pending update against a single read of the document
// and a single write. Updates for nodes no longer present are silently
// dropped; the refresh fires only when at least one flag actually changed.
func (s *ExpandSync) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.pending
	s.pending = make(map[string]bool)
	s.mu.Unlock()

	doc := s.store.Read()

	changed := false
	Walk(doc.RootNodes, func(n *IssueNode) bool {
		want, ok := batch[n.ID]
		if !ok {
			return true
		}
		if n.Expanded == nil || *n.Expanded != want {
			v := want
			n.Expanded = &v
			changed = true
		}
		return true
	})
	if !changed {
		return nil
	}

	if err := s.store.Write(doc); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.NotifyRefresh()
	}
	return nil
}

// Close flushes pending state and stops the synchronizer. Further Record
// calls are ignored.
func (s *ExpandSync) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.Flush()
}
