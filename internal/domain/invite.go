package domain

import "time"

// ─── Invite Tracking ────────────────────────────────────────────────────────

// InviteLog records one member's join attributed to an inviter.
// RejoinCount increments each time the same member rejoins after leaving;
// IsFake marks joins that should not count toward the inviter's totals.
type InviteLog struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	InviterID   int64      `json:"inviter_id,omitempty"`
	JoinedAt    time.Time  `json:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
	RejoinCount int        `json:"rejoin_count"`
	IsFake      bool       `json:"is_fake"`
}

// Counted reports whether this join counts toward the inviter's stats.
func (l InviteLog) Counted() bool {
	return !l.IsFake && l.LeftAt == nil
}
