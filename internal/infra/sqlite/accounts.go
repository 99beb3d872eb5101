package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/staffworks/staffbot/internal/domain"
)

// ─── Account / Ledger Operations ────────────────────────────────────────────

// GetOrCreateAccount returns the account for userID, creating it lazily.
func (db *DB) GetOrCreateAccount(ctx context.Context, userID int64) (domain.Account, error) {
	_, err := db.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO accounts (user_id) VALUES (?)
	`, userID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	var acct domain.Account
	var created string
	err = db.db.QueryRowContext(ctx, `
		SELECT user_id, balance, vc_minutes, created_at FROM accounts WHERE user_id = ?
	`, userID).Scan(&acct.UserID, &acct.Balance, &acct.VCMinutes, &created)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	acct.CreatedAt = parseTime(created)
	return acct, nil
}

// AdjustBalance applies delta to the balance and appends one ledger entry of
// the given kind in the same transaction.
//
// floorAtZero clamps the result at zero and records the delta actually
// applied (admin remove). Without it the balance may go negative: purchase
// debits rely on the caller's sufficiency pre-check, not a store floor.
func (db *DB) AdjustBalance(ctx context.Context, userID int64, delta int64, floorAtZero bool, kind domain.TransactionKind) (int64, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (user_id) VALUES (?)`, userID); err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	applied := delta
	newBalance := balance + delta
	if floorAtZero && newBalance < 0 {
		newBalance = 0
		applied = -balance
	}

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE user_id = ?`, newBalance, userID); err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	if err := appendEntry(ctx, tx, userID, kind, applied); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	return newBalance, nil
}

// ResetBalance zeroes the balance and appends an ADMIN_RESET entry of
// amount 0, matching the audit convention for resets.
func (db *DB) ResetBalance(ctx context.Context, userID int64) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reset balance: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("reset balance: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = 0 WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("reset balance: %w", err)
	}
	if err := appendEntry(ctx, tx, userID, domain.TxAdminReset, 0); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset balance: %w", err)
	}
	return nil
}

// IncrementVCMinutes adds delta voice minutes and appends a VC_REWARD entry
// of the same amount.
func (db *DB) IncrementVCMinutes(ctx context.Context, userID int64, delta int64) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("increment vc minutes: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("increment vc minutes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET vc_minutes = vc_minutes + ? WHERE user_id = ?`, delta, userID); err != nil {
		return fmt.Errorf("increment vc minutes: %w", err)
	}
	if err := appendEntry(ctx, tx, userID, domain.TxVCReward, delta); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("increment vc minutes: %w", err)
	}
	return nil
}

// Entries returns the newest ledger entries for a user, newest first.
func (db *DB) Entries(ctx context.Context, userID int64, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, timestamp
		FROM ledger_entries WHERE user_id = ?
		ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Amount, &ts); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Timestamp = parseTime(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendEntry(ctx context.Context, tx execer, userID int64, kind domain.TransactionKind, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (user_id, kind, amount, timestamp)
		VALUES (?, ?, ?, ?)
	`, userID, string(kind), amount, now())
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}
