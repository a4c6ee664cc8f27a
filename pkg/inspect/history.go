package inspect

import (
	"sync"
	"time"

	"github.com/guise-dev/guise/pkg/vdom"
)

// Entry is one recorded commit.
type Entry struct {
	Seq       uint64        `json:"seq"`       // inspector-wide sequence number
	Component string        `json:"component"`
	Commit    uint64        `json:"commit"`    // the instance's own commit number
	Stats     vdom.Stats    `json:"stats"`
	Duration  time.Duration `json:"duration_ns"`
	At        time.Time     `json:"at"`
	HTML      string        `json:"html,omitempty"` // host snapshot after the commit
}

// History is a thread-safe ring buffer of recent commits. When full, the
// oldest entries are overwritten.
type History struct {
	mu       sync.RWMutex
	entries  []Entry
	head     int // next write position
	count    int
	capacity int
	minSeq   uint64
	maxSeq   uint64
}

// DefaultHistorySize is used when a non-positive capacity is given.
const DefaultHistorySize = 256

// NewHistory creates a history holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Add stores e under the next sequence number and returns the stored entry.
func (h *History) Add(e Entry) Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxSeq++
	e.Seq = h.maxSeq
	h.entries[h.head] = e
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
	h.minSeq = h.maxSeq - uint64(h.count) + 1
	return e
}

// Get returns the entry with the given sequence number, if still buffered.
func (h *History) Get(seq uint64) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 || seq < h.minSeq || seq > h.maxSeq {
		return Entry{}, false
	}
	return h.entries[h.index(seq)], true
}

// Since returns the buffered entries after afterSeq in sequence order, at
// most limit of them (all when limit <= 0). Entries already overwritten are
// skipped.
func (h *History) Since(afterSeq uint64, limit int) []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 || afterSeq >= h.maxSeq {
		return nil
	}
	from := afterSeq + 1
	if from < h.minSeq {
		from = h.minSeq
	}
	n := int(h.maxSeq - from + 1)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]Entry, 0, n)
	for seq := from; len(out) < n; seq++ {
		out = append(out, h.entries[h.index(seq)])
	}
	return out
}

// CanRecover reports whether every entry after lastSeq is still buffered.
func (h *History) CanRecover(lastSeq uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return lastSeq == h.maxSeq
	}
	return lastSeq+1 >= h.minSeq && lastSeq <= h.maxSeq
}

// MinSeq returns the oldest buffered sequence number.
func (h *History) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.minSeq
}

// MaxSeq returns the newest sequence number.
func (h *History) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSeq
}

// Count returns the number of buffered entries.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear drops every entry. Sequence numbers keep increasing.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		h.entries[i] = Entry{}
	}
	h.head = 0
	h.count = 0
	h.minSeq = h.maxSeq + 1
}

// index maps a buffered sequence number to its slot.
func (h *History) index(seq uint64) int {
	back := int(h.maxSeq - seq) // 0 for the newest entry
	return (h.head - 1 - back + 2*h.capacity) % h.capacity
}
