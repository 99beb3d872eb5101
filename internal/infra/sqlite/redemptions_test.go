package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/staffworks/staffbot/internal/domain"
)

func TestRedemption_CreatePending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r, err := db.CreateRedemption(ctx, 42, "VIP Role", 100, "key-1")
	if err != nil {
		t.Fatalf("CreateRedemption() error: %v", err)
	}
	if r.Status != domain.RedemptionPending {
		t.Errorf("Status = %q, want PENDING", r.Status)
	}
	if r.ItemName != "VIP Role" || r.Price != 100 {
		t.Errorf("snapshot = %q/%d, want VIP Role/100", r.ItemName, r.Price)
	}
	if r.ID == 0 {
		t.Error("ID = 0, want assigned")
	}
}

func TestRedemption_IdempotencyKeyDedupes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, _ := db.CreateRedemption(ctx, 42, "VIP Role", 100, "same-key")
	second, err := db.CreateRedemption(ctx, 42, "VIP Role", 100, "same-key")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("dedup returned id %d, want %d", second.ID, first.ID)
	}

	list, _ := db.ListRedemptions(ctx, "", 10)
	if len(list) != 1 {
		t.Errorf("len(redemptions) = %d, want 1", len(list))
	}
}

func TestRedemption_TransitionWinsOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r, _ := db.CreateRedemption(ctx, 1, "X", 5, "k1")

	won, err := db.TransitionStatus(ctx, r.ID, domain.RedemptionPending, domain.RedemptionDenied)
	if err != nil {
		t.Fatal(err)
	}
	if !won {
		t.Fatal("first transition lost, want win")
	}

	// Second decision on the same id loses, regardless of direction.
	won, err = db.TransitionStatus(ctx, r.ID, domain.RedemptionPending, domain.RedemptionApproved)
	if err != nil {
		t.Fatal(err)
	}
	if won {
		t.Error("second transition won, want loss")
	}

	got, _ := db.GetRedemption(ctx, r.ID)
	if got.Status != domain.RedemptionDenied {
		t.Errorf("Status = %q, want DENIED", got.Status)
	}
}

func TestRedemption_TransitionNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.TransitionStatus(context.Background(), 999, domain.RedemptionPending, domain.RedemptionApproved)
	if !errors.Is(err, domain.ErrRedemptionNotFound) {
		t.Errorf("err = %v, want ErrRedemptionNotFound", err)
	}
}

func TestRedemption_GetNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRedemption(context.Background(), 999)
	if !errors.Is(err, domain.ErrRedemptionNotFound) {
		t.Errorf("err = %v, want ErrRedemptionNotFound", err)
	}
}

func TestRedemption_ListByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a, _ := db.CreateRedemption(ctx, 1, "A", 1, "ka")
	db.CreateRedemption(ctx, 2, "B", 2, "kb")
	db.TransitionStatus(ctx, a.ID, domain.RedemptionPending, domain.RedemptionApproved)

	pending, err := db.ListRedemptions(ctx, domain.RedemptionPending, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ItemName != "B" {
		t.Errorf("pending = %+v, want just B", pending)
	}

	all, _ := db.ListRedemptions(ctx, "", 10)
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}
}
