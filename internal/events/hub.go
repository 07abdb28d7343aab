// Package events keeps an in-memory record of recent relay activity.
// Records live only for the lifetime of the process; nothing is persisted.
package events

import (
	"sync"
	"time"
)

// Outcomes of a processed delivery.
const (
	OutcomeRelayed       = "relayed"
	OutcomeEmpty         = "empty"
	OutcomeSearchFailed  = "search_failed"
	OutcomePublishFailed = "publish_failed"
)

// Activity is one processed delivery, as exposed by the observability API.
type Activity struct {
	ID         int64     `json:"id"`
	At         time.Time `json:"at"`
	SpaceID    string    `json:"space_id"`
	Query      string    `json:"query"`
	Outcome    string    `json:"outcome"`
	Results    int       `json:"results"`
	DurationMS int64     `json:"duration_ms"`
}

// Hub is a fixed-capacity ring of recent activity records.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	ring   []Activity
	start  int
	size   int
}

// NewHub creates a Hub holding up to capacity records.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 100
	}
	return &Hub{
		ring: make([]Activity, capacity),
	}
}

// Record stores an activity record, overwriting the oldest when full.
// The ID and timestamp are assigned here.
func (h *Hub) Record(a Activity) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	a.ID = h.nextID
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}

	capacity := len(h.ring)
	if h.size < capacity {
		idx := (h.start + h.size) % capacity
		h.ring[idx] = a
		h.size++
		return
	}

	// Overwrite oldest.
	h.ring[h.start] = a
	h.start = (h.start + 1) % capacity
}

// Snapshot returns buffered records oldest-first.
func (h *Hub) Snapshot() []Activity {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Activity, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.ring[(h.start+i)%len(h.ring)])
	}
	return out
}

// Len returns the number of buffered records.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}
