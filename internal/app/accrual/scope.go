// Package accrual converts member activity — chat messages and voice
// presence — into ledger credits. It holds the process-local state the
// reward paths need: channel scope sets and the ephemeral per-user counters.
package accrual

import "sync"

// ─── Channel Scope Policy ───────────────────────────────────────────────────

// ChannelScope is one (enabled, disabled) set pair. A channel is eligible
// iff it is in the enabled set AND not in the disabled set — disabled wins
// over enabled for the same identifier, and an unlisted channel is not
// eligible. Mutations keep the pair consistent: enabling removes the
// identifier from the disabled set and vice versa.
type ChannelScope struct {
	mu       sync.Mutex
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

// NewChannelScope creates a scope pre-seeded with the given sets.
func NewChannelScope(enabled, disabled []string) *ChannelScope {
	s := &ChannelScope{
		enabled:  make(map[string]struct{}),
		disabled: make(map[string]struct{}),
	}
	for _, id := range enabled {
		s.enabled[id] = struct{}{}
	}
	for _, id := range disabled {
		s.disabled[id] = struct{}{}
	}
	return s
}

// Enable adds id to the enabled set and discards it from the disabled set.
func (s *ChannelScope) Enable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[id] = struct{}{}
	delete(s.disabled, id)
}

// Disable adds id to the disabled set and discards it from the enabled set.
func (s *ChannelScope) Disable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled[id] = struct{}{}
	delete(s.enabled, id)
}

// Eligible reports whether id participates in reward accrual.
func (s *ChannelScope) Eligible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, off := s.disabled[id]; off {
		return false
	}
	_, on := s.enabled[id]
	return on
}

// ─── Per-User Counters ──────────────────────────────────────────────────────

// tally is a mutex-guarded per-user counter map with atomic bump/reset.
// Counters are process-local and intentionally volatile: a restart loses
// progress toward the next reward.
type tally struct {
	mu     sync.Mutex
	counts map[int64]int
}

func newTally() *tally {
	return &tally{counts: make(map[int64]int)}
}

// bump increments the user's counter and returns the new value.
func (t *tally) bump(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[userID]++
	return t.counts[userID]
}

// reset zeroes the user's counter.
func (t *tally) reset(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, userID)
}
