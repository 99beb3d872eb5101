// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// ─── Economy Types ──────────────────────────────────────────────────────────

// Account holds a member's point balance and voice-time counter.
// Accounts are created lazily on first reference and never deleted.
type Account struct {
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	VCMinutes int64     `json:"vc_minutes"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionKind is the business reason for a ledger entry.
type TransactionKind string

const (
	TxMessageReward TransactionKind = "MESSAGE_REWARD"
	TxVCReward      TransactionKind = "VC_REWARD"
	TxAdminAdd      TransactionKind = "ADMIN_ADD"
	TxAdminRemove   TransactionKind = "ADMIN_REMOVE"
	TxAdminReset    TransactionKind = "ADMIN_RESET"
	TxPurchase      TransactionKind = "PURCHASE"
	TxRefund        TransactionKind = "REFUND"
)

// LedgerEntry is a single row in the append-only transaction log.
// Entries are an audit trail only — balances are never recomputed from them.
// Amount is the signed delta actually applied (ADMIN_RESET records 0, matching
// the long-standing audit convention for resets).
type LedgerEntry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Kind      TransactionKind `json:"kind"`
	Amount    int64           `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
