package audit

import (
	"encoding/json"
	"sync"
	"time"
)

// Entry is one booking event as seen on the wire, kept verbatim so the
// desk can show exactly what the bookings service reported.
type Entry struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Key           string          `json:"key"`
	Payload       json.RawMessage `json:"payload"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// Trail is a bounded in-memory record of recent booking events. Oldest
// entries fall off once the capacity is reached.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
}

func NewTrail(max int) *Trail {
	if max < 1 {
		max = 1
	}
	return &Trail{max: max}
}

func (t *Trail) Record(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, e)
	if len(t.entries) > t.max {
		t.entries = t.entries[len(t.entries)-t.max:]
	}
}

// Recent returns up to limit entries, newest first.
func (t *Trail) Recent(limit int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if limit < 1 || limit > len(t.entries) {
		limit = len(t.entries)
	}

	out := make([]Entry, limit)
	for i := 0; i < limit; i++ {
		out[i] = t.entries[len(t.entries)-1-i]
	}
	return out
}

func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
