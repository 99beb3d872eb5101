package accrual

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/staffworks/staffbot/internal/domain"
	"github.com/staffworks/staffbot/internal/infra/sqlite"
)

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMessageReward_ThresholdFires(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	scope := NewChannelScope([]string{"general"}, nil)
	m := NewMessageRewarder(db, scope, 5, 1)

	for i := 0; i < 4; i++ {
		if err := m.RecordMessage(ctx, 1, "general"); err != nil {
			t.Fatal(err)
		}
	}
	acct, _ := db.GetOrCreateAccount(ctx, 1)
	if acct.Balance != 0 {
		t.Errorf("balance after 4 messages = %d, want 0", acct.Balance)
	}

	if err := m.RecordMessage(ctx, 1, "general"); err != nil {
		t.Fatal(err)
	}
	acct, _ = db.GetOrCreateAccount(ctx, 1)
	if acct.Balance != 1 {
		t.Errorf("balance after 5th message = %d, want 1", acct.Balance)
	}

	entries, _ := db.Entries(ctx, 1, 10)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Kind != domain.TxMessageReward || entries[0].Amount != 1 {
		t.Errorf("entry = %q/%d, want MESSAGE_REWARD/1", entries[0].Kind, entries[0].Amount)
	}
}

func TestMessageReward_CounterResets(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	scope := NewChannelScope([]string{"general"}, nil)
	m := NewMessageRewarder(db, scope, 5, 1)

	// 12 messages: exactly two rewards, counter sits at 2.
	for i := 0; i < 12; i++ {
		if err := m.RecordMessage(ctx, 1, "general"); err != nil {
			t.Fatal(err)
		}
	}
	acct, _ := db.GetOrCreateAccount(ctx, 1)
	if acct.Balance != 2 {
		t.Errorf("balance after 12 messages = %d, want 2", acct.Balance)
	}
}

func TestMessageReward_DisabledChannelNoEffect(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	scope := NewChannelScope([]string{"general"}, []string{"general"})
	m := NewMessageRewarder(db, scope, 5, 1)

	for i := 0; i < 20; i++ {
		if err := m.RecordMessage(ctx, 1, "general"); err != nil {
			t.Fatal(err)
		}
	}
	acct, _ := db.GetOrCreateAccount(ctx, 1)
	if acct.Balance != 0 {
		t.Errorf("balance = %d, want 0 (disabled wins over enabled)", acct.Balance)
	}
	entries, _ := db.Entries(ctx, 1, 10)
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestMessageReward_CountersPerUser(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	scope := NewChannelScope([]string{"general"}, nil)
	m := NewMessageRewarder(db, scope, 5, 1)

	for i := 0; i < 4; i++ {
		m.RecordMessage(ctx, 1, "general")
		m.RecordMessage(ctx, 2, "general")
	}
	m.RecordMessage(ctx, 1, "general")

	a1, _ := db.GetOrCreateAccount(ctx, 1)
	a2, _ := db.GetOrCreateAccount(ctx, 2)
	if a1.Balance != 1 {
		t.Errorf("user 1 balance = %d, want 1", a1.Balance)
	}
	if a2.Balance != 0 {
		t.Errorf("user 2 balance = %d, want 0", a2.Balance)
	}
}
