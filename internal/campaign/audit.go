package campaign

import (
	"sync"
	"time"
)

// DefaultAuditCapacity bounds the in-memory diagnostic trail.
const DefaultAuditCapacity = 1000

// AuditEntry is one immutable record of an engine action.
type AuditEntry struct {
	At     time.Time `json:"at"`
	Action string    `json:"action"`
	Detail string    `json:"detail"`
}

// AuditLog is a bounded append-only ring of recent engine actions. When the
// cap is exceeded the oldest entry is evicted first.
type AuditLog struct {
	mu      sync.Mutex
	cap     int
	entries []AuditEntry
	start   int
	count   int
}

func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditLog{cap: capacity, entries: make([]AuditEntry, capacity)}
}

func (l *AuditLog) Record(at time.Time, action, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos := (l.start + l.count) % l.cap
	l.entries[pos] = AuditEntry{At: at, Action: action, Detail: detail}
	if l.count < l.cap {
		l.count++
	} else {
		l.start = (l.start + 1) % l.cap
	}
}

// Entries returns the retained records, oldest first.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(l.start+i)%l.cap]
	}
	return out
}

// Len returns the number of retained records.
func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
