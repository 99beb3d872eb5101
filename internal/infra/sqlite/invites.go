package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/staffworks/staffbot/internal/domain"
)

// ─── Invite Log Operations ──────────────────────────────────────────────────

// RecordJoin logs a member join attributed to inviterID (0 when unknown).
// A rejoin of a previously departed member clears left_at and bumps the
// rejoin count instead of inserting a second row.
func (db *DB) RecordJoin(ctx context.Context, userID, inviterID int64) (domain.InviteLog, error) {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO invite_logs (user_id, inviter_id, joined_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			joined_at    = excluded.joined_at,
			left_at      = NULL,
			rejoin_count = rejoin_count + 1
	`, userID, inviterID, now())
	if err != nil {
		return domain.InviteLog{}, fmt.Errorf("record join: %w", err)
	}
	return db.inviteLog(ctx, userID)
}

// RecordLeave stamps left_at for the member's invite row. Unknown members
// are ignored (they joined before tracking started).
func (db *DB) RecordLeave(ctx context.Context, userID int64) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE invite_logs SET left_at = ? WHERE user_id = ? AND left_at IS NULL
	`, now(), userID)
	if err != nil {
		return fmt.Errorf("record leave: %w", err)
	}
	return nil
}

// MarkFake flags the member's join as fake so it stops counting toward the
// inviter's totals.
func (db *DB) MarkFake(ctx context.Context, userID int64) error {
	_, err := db.db.ExecContext(ctx, `
		UPDATE invite_logs SET is_fake = 1 WHERE user_id = ?
	`, userID)
	if err != nil {
		return fmt.Errorf("mark fake: %w", err)
	}
	return nil
}

// InviterCount returns the number of currently counted joins for an inviter
// (present members, fakes excluded).
func (db *DB) InviterCount(ctx context.Context, inviterID int64) (int, error) {
	var n int
	err := db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invite_logs
		WHERE inviter_id = ? AND is_fake = 0 AND left_at IS NULL
	`, inviterID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("inviter count: %w", err)
	}
	return n, nil
}

func (db *DB) inviteLog(ctx context.Context, userID int64) (domain.InviteLog, error) {
	var l domain.InviteLog
	var joined string
	var left sql.NullString
	var fake int
	err := db.db.QueryRowContext(ctx, `
		SELECT id, user_id, inviter_id, joined_at, left_at, rejoin_count, is_fake
		FROM invite_logs WHERE user_id = ?
	`, userID).Scan(&l.ID, &l.UserID, &l.InviterID, &joined, &left, &l.RejoinCount, &fake)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InviteLog{}, fmt.Errorf("invite log: no row for user %d", userID)
	}
	if err != nil {
		return domain.InviteLog{}, fmt.Errorf("invite log: %w", err)
	}
	l.JoinedAt = parseTime(joined)
	if left.Valid {
		t := parseTime(left.String)
		l.LeftAt = &t
	}
	l.IsFake = fake == 1
	return l, nil
}
