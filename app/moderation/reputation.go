package moderation

import "sync"

// Reputation counts consecutive non-spam messages per user since the
// process started. It only ever grows: there is no decrement and no
// eviction, which is fine at chat scale. Not persisted.
type Reputation struct {
	mu     sync.Mutex
	counts map[int64]uint32
}

func NewReputation() *Reputation {
	return &Reputation{counts: make(map[int64]uint32)}
}

// Increment bumps the count for id and returns the new value, starting
// at 1 for unknown users.
func (r *Reputation) Increment(id int64) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[id]++
	return r.counts[id]
}
