package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/staffworks/staffbot/internal/domain"
)

// ─── Redemption Operations ──────────────────────────────────────────────────

// CreateRedemption inserts a PENDING redemption with purchase-time snapshots
// of the item name and price. The idempotency key deduplicates retried
// purchase requests: a second create with the same key returns the original
// record instead of inserting a duplicate.
func (db *DB) CreateRedemption(ctx context.Context, userID int64, itemName string, price int64, key string) (domain.Redemption, error) {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO redemptions (user_id, item_name, price, status, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(idempotency_key) DO NOTHING
	`, userID, itemName, price, string(domain.RedemptionPending), key, now())
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("create redemption: %w", err)
	}

	var r domain.Redemption
	var created string
	err = db.db.QueryRowContext(ctx, `
		SELECT id, user_id, item_name, price, status, created_at
		FROM redemptions WHERE idempotency_key = ?
	`, key).Scan(&r.ID, &r.UserID, &r.ItemName, &r.Price, &r.Status, &created)
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("create redemption: %w", err)
	}
	r.CreatedAt = parseTime(created)
	return r, nil
}

// GetRedemption returns the redemption with the given id, or
// domain.ErrRedemptionNotFound.
func (db *DB) GetRedemption(ctx context.Context, id int64) (domain.Redemption, error) {
	var r domain.Redemption
	var created string
	err := db.db.QueryRowContext(ctx, `
		SELECT id, user_id, item_name, price, status, created_at
		FROM redemptions WHERE id = ?
	`, id).Scan(&r.ID, &r.UserID, &r.ItemName, &r.Price, &r.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Redemption{}, domain.ErrRedemptionNotFound
	}
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("get redemption: %w", err)
	}
	r.CreatedAt = parseTime(created)
	return r, nil
}

// TransitionStatus atomically flips the redemption from `from` to `to` with
// a single conditional UPDATE. It reports whether this call won the
// transition; false with nil error means the record exists but was not in
// `from` (a racing decision already landed).
func (db *DB) TransitionStatus(ctx context.Context, id int64, from, to domain.RedemptionStatus) (bool, error) {
	res, err := db.db.ExecContext(ctx, `
		UPDATE redemptions SET status = ? WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transition redemption: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition redemption: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Distinguish "already decided" from "no such redemption".
	var exists int
	err = db.db.QueryRowContext(ctx, `SELECT 1 FROM redemptions WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrRedemptionNotFound
	}
	if err != nil {
		return false, fmt.Errorf("transition redemption: %w", err)
	}
	return false, nil
}

// ListRedemptions returns redemptions filtered by status (empty status means
// all), newest first.
func (db *DB) ListRedemptions(ctx context.Context, status domain.RedemptionStatus, limit int) ([]domain.Redemption, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, item_name, price, status, created_at
		FROM redemptions ORDER BY id DESC LIMIT ?`
	args := []any{limit}
	if status != "" {
		query = `
		SELECT id, user_id, item_name, price, status, created_at
		FROM redemptions WHERE status = ? ORDER BY id DESC LIMIT ?`
		args = []any{string(status), limit}
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var out []domain.Redemption
	for rows.Next() {
		var r domain.Redemption
		var created string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ItemName, &r.Price, &r.Status, &created); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}
