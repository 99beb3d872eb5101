package sqlite

import (
	"context"
	"testing"
)

func TestInvites_JoinLeaveRejoin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	l, err := db.RecordJoin(ctx, 100, 7)
	if err != nil {
		t.Fatalf("RecordJoin() error: %v", err)
	}
	if l.RejoinCount != 0 {
		t.Errorf("RejoinCount = %d, want 0", l.RejoinCount)
	}
	if l.InviterID != 7 {
		t.Errorf("InviterID = %d, want 7", l.InviterID)
	}

	if err := db.RecordLeave(ctx, 100); err != nil {
		t.Fatal(err)
	}

	l, err = db.RecordJoin(ctx, 100, 7)
	if err != nil {
		t.Fatal(err)
	}
	if l.RejoinCount != 1 {
		t.Errorf("RejoinCount after rejoin = %d, want 1", l.RejoinCount)
	}
	if l.LeftAt != nil {
		t.Error("LeftAt set after rejoin, want nil")
	}
}

func TestInvites_InviterCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.RecordJoin(ctx, 101, 7)
	db.RecordJoin(ctx, 102, 7)
	db.RecordJoin(ctx, 103, 7)
	db.RecordJoin(ctx, 104, 8)

	// Departed and fake joins stop counting.
	db.RecordLeave(ctx, 101)
	db.MarkFake(ctx, 102)

	n, err := db.InviterCount(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("InviterCount(7) = %d, want 1", n)
	}
}

func TestInvites_LeaveUnknownMember(t *testing.T) {
	db := newTestDB(t)

	// Members who joined before tracking started are ignored.
	if err := db.RecordLeave(context.Background(), 999); err != nil {
		t.Errorf("RecordLeave(unknown) error: %v", err)
	}
}
