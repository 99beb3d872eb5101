package sqlite

import (
	"context"
	"testing"

	"github.com/staffworks/staffbot/internal/domain"
)

func TestGetOrCreateAccount_Lazy(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acct, err := db.GetOrCreateAccount(ctx, 42)
	if err != nil {
		t.Fatalf("GetOrCreateAccount() error: %v", err)
	}
	if acct.UserID != 42 {
		t.Errorf("UserID = %d, want 42", acct.UserID)
	}
	if acct.Balance != 0 || acct.VCMinutes != 0 {
		t.Errorf("new account = %+v, want zero balance and minutes", acct)
	}

	// Second call returns the same account, not a reset one.
	if _, err := db.AdjustBalance(ctx, 42, 7, false, domain.TxAdminAdd); err != nil {
		t.Fatal(err)
	}
	acct, err = db.GetOrCreateAccount(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if acct.Balance != 7 {
		t.Errorf("Balance = %d, want 7", acct.Balance)
	}
}

func TestAdjustBalance_SumOfDeltas(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	deltas := []int64{5, 3, -2, 10, -6}
	var want int64
	var got int64
	var err error
	for _, d := range deltas {
		want += d
		got, err = db.AdjustBalance(ctx, 1, d, false, domain.TxAdminAdd)
		if err != nil {
			t.Fatalf("AdjustBalance(%d) error: %v", d, err)
		}
	}
	if got != want {
		t.Errorf("final balance = %d, want %d", got, want)
	}
}

func TestAdjustBalance_FlooredClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.AdjustBalance(ctx, 1, 3, false, domain.TxAdminAdd)
	got, err := db.AdjustBalance(ctx, 1, -10, true, domain.TxAdminRemove)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("floored balance = %d, want 0", got)
	}

	// The entry records the delta actually applied, not the requested one.
	entries, err := db.Entries(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Kind != domain.TxAdminRemove {
		t.Errorf("Kind = %q, want %q", entries[0].Kind, domain.TxAdminRemove)
	}
	if entries[0].Amount != -3 {
		t.Errorf("Amount = %d, want -3 (applied delta)", entries[0].Amount)
	}
}

func TestAdjustBalance_UnflooredMayGoNegative(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Purchase debits skip the floor: the caller's sufficiency pre-check is
	// the only guard, and bypassing it proves the asymmetry.
	got, err := db.AdjustBalance(ctx, 1, -10, false, domain.TxPurchase)
	if err != nil {
		t.Fatal(err)
	}
	if got != -10 {
		t.Errorf("unfloored balance = %d, want -10", got)
	}
}

func TestAdjustBalance_OneEntryPerChange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.AdjustBalance(ctx, 1, 5, false, domain.TxAdminAdd)
	db.AdjustBalance(ctx, 1, -2, false, domain.TxPurchase)
	db.AdjustBalance(ctx, 1, 2, false, domain.TxRefund)

	entries, err := db.Entries(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	// Newest first.
	wantKinds := []domain.TransactionKind{domain.TxRefund, domain.TxPurchase, domain.TxAdminAdd}
	wantAmounts := []int64{2, -2, 5}
	for i, e := range entries {
		if e.Kind != wantKinds[i] {
			t.Errorf("entries[%d].Kind = %q, want %q", i, e.Kind, wantKinds[i])
		}
		if e.Amount != wantAmounts[i] {
			t.Errorf("entries[%d].Amount = %d, want %d", i, e.Amount, wantAmounts[i])
		}
	}
}

func TestResetBalance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.AdjustBalance(ctx, 9, 50, false, domain.TxAdminAdd)
	if err := db.ResetBalance(ctx, 9); err != nil {
		t.Fatalf("ResetBalance() error: %v", err)
	}

	acct, _ := db.GetOrCreateAccount(ctx, 9)
	if acct.Balance != 0 {
		t.Errorf("Balance = %d, want 0", acct.Balance)
	}

	entries, _ := db.Entries(ctx, 9, 1)
	if entries[0].Kind != domain.TxAdminReset {
		t.Errorf("Kind = %q, want %q", entries[0].Kind, domain.TxAdminReset)
	}
	if entries[0].Amount != 0 {
		t.Errorf("Amount = %d, want 0", entries[0].Amount)
	}
}

func TestIncrementVCMinutes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.IncrementVCMinutes(ctx, 7, 1); err != nil {
			t.Fatalf("IncrementVCMinutes() error: %v", err)
		}
	}

	acct, _ := db.GetOrCreateAccount(ctx, 7)
	if acct.VCMinutes != 3 {
		t.Errorf("VCMinutes = %d, want 3", acct.VCMinutes)
	}
	if acct.Balance != 0 {
		t.Errorf("Balance = %d, want 0 (VC rewards do not touch balance)", acct.Balance)
	}

	entries, _ := db.Entries(ctx, 7, 10)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Kind != domain.TxVCReward || e.Amount != 1 {
			t.Errorf("entry = %q/%d, want VC_REWARD/1", e.Kind, e.Amount)
		}
	}
}

func TestAdjustBalance_ConcurrentSameUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A message reward and a VC reward landing in the same instant must not
	// lose an update.
	done := make(chan error, 2)
	go func() {
		_, err := db.AdjustBalance(ctx, 5, 1, false, domain.TxMessageReward)
		done <- err
	}()
	go func() {
		done <- db.IncrementVCMinutes(ctx, 5, 1)
	}()
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent mutation error: %v", err)
		}
	}

	acct, _ := db.GetOrCreateAccount(ctx, 5)
	if acct.Balance != 1 {
		t.Errorf("Balance = %d, want 1", acct.Balance)
	}
	if acct.VCMinutes != 1 {
		t.Errorf("VCMinutes = %d, want 1", acct.VCMinutes)
	}
}
