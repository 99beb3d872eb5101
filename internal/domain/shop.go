package domain

import "time"

// ─── Shop Types ─────────────────────────────────────────────────────────────

// ShopItem is a catalog entry redeemable for points.
// Name lookup is case-insensitive but uniqueness is NOT enforced at creation;
// two items differing only in case are a known fragility left to admin
// discipline.
type ShopItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// RedemptionStatus is the state of a redemption request.
type RedemptionStatus string

const (
	RedemptionPending  RedemptionStatus = "PENDING"
	RedemptionApproved RedemptionStatus = "APPROVED"
	RedemptionDenied   RedemptionStatus = "DENIED"
)

// Terminal reports whether no further transition is allowed.
func (s RedemptionStatus) Terminal() bool {
	return s == RedemptionApproved || s == RedemptionDenied
}

// Redemption is a pending-to-terminal request to exchange points for a shop
// item. ItemName and Price are snapshots taken at purchase time — later
// catalog edits never affect an existing redemption. A denied redemption
// refunds exactly the snapshot price.
type Redemption struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	ItemName  string           `json:"item_name"`
	Price     int64            `json:"price"`
	Status    RedemptionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
