package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Shop errors
	ErrItemNotFound = errors.New("shop item not found")

	// Redemption errors
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrInvalidState       = errors.New("redemption is not pending")

	// Ledger errors
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Command errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnknownCommand   = errors.New("unknown command")
)
