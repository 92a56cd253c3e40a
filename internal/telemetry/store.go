package telemetry

import "sync"

// Store holds the events of one recorded session. NOT an interface -
// concrete type, owned by the caller.
// Thread-safety: all methods are safe for concurrent use via internal
// mutex. Independent Stores share nothing and may be used from separate
// goroutines without coordination.
type Store struct {
	mu     sync.RWMutex
	events []Event
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a single event. Duplicate IDs are permitted; the graph view
// merges outgoing edges of colliding IDs.
func (s *Store) Add(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// AddBatch appends events preserving the given order.
func (s *Store) AddBatch(evs []Event) {
	s.mu.Lock()
	s.events = append(s.events, evs...)
	s.mu.Unlock()
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

// Size returns the number of stored events.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Snapshot returns a copy of the current events in insertion order. The
// correlation engine works on snapshots only; it never touches the store.
func (s *Store) Snapshot() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
