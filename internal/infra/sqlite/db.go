// Package sqlite implements the persistence layer on modernc.org/sqlite
// (pure Go, no CGO). It backs the ledger, shop catalog, redemption records,
// and invite log.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and implements the domain store interfaces.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies all
// migrations. Write transactions take the lock immediately so that
// read-modify-write sequences inside a transaction are serialized.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection keeps
	// per-user balance updates strictly serialized.
	handle.SetMaxOpenConns(1)

	db := &DB{db: handle}
	if err := db.migrate(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying handle.
func (db *DB) Close() error { return db.db.Close() }

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Member accounts: balance plus voice-time counter
		`CREATE TABLE IF NOT EXISTS accounts (
			user_id    INTEGER PRIMARY KEY,
			balance    INTEGER NOT NULL DEFAULT 0,
			vc_minutes INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Append-only transaction log (audit trail, never replayed)
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   INTEGER NOT NULL,
			kind      TEXT NOT NULL,
			amount    INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user ON ledger_entries(user_id, id)`,

		// Shop catalog
		`CREATE TABLE IF NOT EXISTS shop_items (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			price       INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''
		)`,

		// Redemption requests with purchase-time snapshots
		`CREATE TABLE IF NOT EXISTS redemptions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL,
			item_name       TEXT NOT NULL,
			price           INTEGER NOT NULL,
			status          TEXT NOT NULL DEFAULT 'PENDING',
			idempotency_key TEXT NOT NULL UNIQUE,
			created_at      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_redemption_status ON redemptions(status)`,

		// Invite attribution log
		`CREATE TABLE IF NOT EXISTS invite_logs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      INTEGER NOT NULL UNIQUE,
			inviter_id   INTEGER NOT NULL DEFAULT 0,
			joined_at    TEXT NOT NULL,
			left_at      TEXT,
			rejoin_count INTEGER NOT NULL DEFAULT 0,
			is_fake      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invite_inviter ON invite_logs(inviter_id)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// now returns the canonical stored timestamp format.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
