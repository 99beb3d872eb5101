package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// LedgerStore abstracts account balances and the append-only transaction log.
// All mutations are atomic with respect to concurrent callers touching the
// same user, and every balance change appends exactly one matching ledger
// entry in the same storage transaction.
type LedgerStore interface {
	// GetOrCreateAccount returns the account for userID, creating it with a
	// zero balance on first reference.
	GetOrCreateAccount(ctx context.Context, userID int64) (Account, error)

	// AdjustBalance applies delta to the account balance and appends one
	// ledger entry of the given kind recording the applied delta.
	//
	// With floorAtZero the result is clamped at zero (admin remove paths).
	// Without it the balance may go negative: purchase debits rely on a
	// caller-side sufficiency check, not a store-enforced floor. That
	// asymmetry is deliberate and matches the audited behavior.
	AdjustBalance(ctx context.Context, userID int64, delta int64, floorAtZero bool, kind TransactionKind) (newBalance int64, err error)

	// ResetBalance zeroes the account balance and appends an ADMIN_RESET
	// entry of amount 0.
	ResetBalance(ctx context.Context, userID int64) error

	// IncrementVCMinutes adds delta voice minutes and appends a VC_REWARD
	// entry of the same amount.
	IncrementVCMinutes(ctx context.Context, userID int64, delta int64) error

	// Entries returns the most recent ledger entries for a user, newest
	// first.
	Entries(ctx context.Context, userID int64, limit int) ([]LedgerEntry, error)
}

// ShopStore abstracts shop item CRUD.
type ShopStore interface {
	ListItems(ctx context.Context) ([]ShopItem, error)
	// FindItem performs a case-insensitive name lookup and returns
	// ErrItemNotFound when absent.
	FindItem(ctx context.Context, name string) (ShopItem, error)
	AddItem(ctx context.Context, name string, price int64, description string) (ShopItem, error)
	// RemoveItem reports whether a matching item existed.
	RemoveItem(ctx context.Context, name string) (bool, error)
	ResetItems(ctx context.Context) error
}

// RedemptionStore abstracts redemption records and their guarded status
// transitions.
type RedemptionStore interface {
	// CreateRedemption inserts a PENDING redemption with name and price
	// snapshots. The key deduplicates retried purchase requests: a second
	// create with the same key returns the original record.
	CreateRedemption(ctx context.Context, userID int64, itemName string, price int64, key string) (Redemption, error)

	GetRedemption(ctx context.Context, id int64) (Redemption, error)

	// TransitionStatus atomically flips the redemption from `from` to `to`
	// and reports whether this call won the transition. A false return with
	// nil error means the redemption was not in `from` (already decided).
	TransitionStatus(ctx context.Context, id int64, from, to RedemptionStatus) (bool, error)

	ListRedemptions(ctx context.Context, status RedemptionStatus, limit int) ([]Redemption, error)
}

// InviteStore abstracts the invite log.
type InviteStore interface {
	RecordJoin(ctx context.Context, userID, inviterID int64) (InviteLog, error)
	RecordLeave(ctx context.Context, userID int64) error
	MarkFake(ctx context.Context, userID int64) error
	InviterCount(ctx context.Context, inviterID int64) (int, error)
}

// ─── External Collaborators ─────────────────────────────────────────────────
// The chat gateway implements these; the core never imports the gateway SDK.

// VoiceMember is one member currently present in a voice channel.
type VoiceMember struct {
	UserID    int64
	ChannelID string
	Bot       bool
	SelfMute  bool
	SelfDeaf  bool
}

// VoiceChannel is a snapshot of one voice channel's occupancy at tick time.
type VoiceChannel struct {
	ID      string
	Members []VoiceMember
}

// PresenceSource enumerates voice-channel occupancy once per tick.
type PresenceSource interface {
	VoiceChannels(ctx context.Context) ([]VoiceChannel, error)
}

// MemberMover moves a member between voice channels. Best-effort: callers
// log and discard failures.
type MemberMover interface {
	MoveToChannel(ctx context.Context, userID int64, channelID string) error
}

// Notifier delivers a direct message to a user. Best-effort: callers log and
// discard failures.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}

// Announcer posts a message to the admin channel. Best-effort.
type Announcer interface {
	Announce(ctx context.Context, message string) error
}
