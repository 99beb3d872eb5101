package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/staffworks/staffbot/internal/domain"
)

func TestShop_AddListFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	item, err := db.AddItem(ctx, "VIP Role", 100, "One month of VIP")
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if item.ID == 0 {
		t.Error("item.ID = 0, want assigned")
	}

	items, err := db.ListItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	tests := []struct {
		query string
	}{
		{"VIP Role"},
		{"vip role"},
		{"VIP ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.FindItem(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindItem(%q) error: %v", tt.query, err)
			}
			if got.Name != "VIP Role" || got.Price != 100 {
				t.Errorf("FindItem(%q) = %+v", tt.query, got)
			}
		})
	}
}

func TestShop_FindNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.FindItem(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestShop_DuplicateNamesAllowed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Uniqueness is not enforced; the first insert wins lookups.
	db.AddItem(ctx, "Sticker", 5, "first")
	db.AddItem(ctx, "sticker", 9, "second")

	got, err := db.FindItem(ctx, "STICKER")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "first" {
		t.Errorf("lookup returned %q, want first match", got.Description)
	}
}

func TestShop_Remove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.AddItem(ctx, "Badge", 10, "")
	found, err := db.RemoveItem(ctx, "badge")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("RemoveItem() = false, want true")
	}

	found, err = db.RemoveItem(ctx, "badge")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("second RemoveItem() = true, want false")
	}
}

func TestShop_Reset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.AddItem(ctx, "A", 1, "")
	db.AddItem(ctx, "B", 2, "")
	if err := db.ResetItems(ctx); err != nil {
		t.Fatal(err)
	}

	items, _ := db.ListItems(ctx)
	if len(items) != 0 {
		t.Errorf("len(items) = %d after reset, want 0", len(items))
	}
}
