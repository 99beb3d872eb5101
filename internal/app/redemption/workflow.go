// Package redemption implements the purchase → admin decision state machine.
// A redemption is created PENDING when a member buys a shop item and moves
// exactly once to APPROVED or DENIED; denial refunds the snapshot price.
package redemption

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/staffworks/staffbot/internal/domain"
	"github.com/staffworks/staffbot/internal/infra/metrics"
)

// Workflow drives redemption state transitions over the stores. Buyer and
// admin notifications are best-effort; their failures are logged and never
// surface to the caller once the state transition has committed.
type Workflow struct {
	ledger      domain.LedgerStore
	shop        domain.ShopStore
	redemptions domain.RedemptionStore
	notify      domain.Notifier
	announce    domain.Announcer
}

// New builds the workflow. notify and announce may be nil in tests.
func New(ledger domain.LedgerStore, shop domain.ShopStore, redemptions domain.RedemptionStore, notify domain.Notifier, announce domain.Announcer) *Workflow {
	return &Workflow{
		ledger:      ledger,
		shop:        shop,
		redemptions: redemptions,
		notify:      notify,
		announce:    announce,
	}
}

// Purchase debits the buyer and creates a PENDING redemption carrying a
// snapshot of the item name and price, so later catalog edits never affect
// it. The debit is unclamped: sufficiency is guaranteed by the pre-check
// here, not by a ledger floor. Admins are notified best-effort.
func (w *Workflow) Purchase(ctx context.Context, userID int64, itemName string) (domain.Redemption, error) {
	item, err := w.shop.FindItem(ctx, itemName)
	if err != nil {
		return domain.Redemption{}, err
	}

	acct, err := w.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("purchase: %w", err)
	}
	if acct.Balance < item.Price {
		return domain.Redemption{}, domain.ErrInsufficientBalance
	}

	if _, err := w.ledger.AdjustBalance(ctx, userID, -item.Price, false, domain.TxPurchase); err != nil {
		return domain.Redemption{}, fmt.Errorf("purchase debit: %w", err)
	}

	r, err := w.redemptions.CreateRedemption(ctx, userID, item.Name, item.Price, uuid.NewString())
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("purchase: %w", err)
	}
	metrics.Redemptions.WithLabelValues("created").Inc()

	if w.announce != nil {
		msg := fmt.Sprintf("Redemption request #%d: user %d wants %q for %d points. Use accept %d or deny %d.",
			r.ID, userID, r.ItemName, r.Price, r.ID, r.ID)
		if err := w.announce.Announce(ctx, msg); err != nil {
			log.Printf("[redemption] admin announce failed for #%d: %v", r.ID, err)
			metrics.DeliveryFailures.WithLabelValues("announce").Inc()
		}
	}
	return r, nil
}

// Approve flips a PENDING redemption to APPROVED. The transition is a
// single conditional update at the store: a racing decision on the same id
// loses with ErrInvalidState and has no effect. No ledger movement.
func (w *Workflow) Approve(ctx context.Context, id int64) (domain.Redemption, error) {
	won, err := w.redemptions.TransitionStatus(ctx, id, domain.RedemptionPending, domain.RedemptionApproved)
	if err != nil {
		return domain.Redemption{}, err
	}
	if !won {
		return domain.Redemption{}, domain.ErrInvalidState
	}
	metrics.Redemptions.WithLabelValues("approved").Inc()

	r, err := w.redemptions.GetRedemption(ctx, id)
	if err != nil {
		return domain.Redemption{}, err
	}

	w.notifyBuyer(ctx, r.UserID, fmt.Sprintf("Your redemption of %q was approved.", r.ItemName))
	return r, nil
}

// Deny flips a PENDING redemption to DENIED and refunds the snapshot price
// exactly once. Winning the conditional status update is what authorizes
// the refund, so two racing denials can never refund twice.
func (w *Workflow) Deny(ctx context.Context, id int64) (domain.Redemption, error) {
	r, err := w.redemptions.GetRedemption(ctx, id)
	if err != nil {
		return domain.Redemption{}, err
	}

	won, err := w.redemptions.TransitionStatus(ctx, id, domain.RedemptionPending, domain.RedemptionDenied)
	if err != nil {
		return domain.Redemption{}, err
	}
	if !won {
		return domain.Redemption{}, domain.ErrInvalidState
	}
	metrics.Redemptions.WithLabelValues("denied").Inc()

	if _, err := w.ledger.AdjustBalance(ctx, r.UserID, r.Price, false, domain.TxRefund); err != nil {
		// Status already flipped; surface the failed refund rather than
		// risk a second one.
		return domain.Redemption{}, fmt.Errorf("refund for redemption %d: %w", id, err)
	}

	r.Status = domain.RedemptionDenied
	w.notifyBuyer(ctx, r.UserID, fmt.Sprintf("Your redemption of %q was denied. %d points refunded.", r.ItemName, r.Price))
	return r, nil
}

func (w *Workflow) notifyBuyer(ctx context.Context, userID int64, msg string) {
	if w.notify == nil {
		return
	}
	if err := w.notify.Notify(ctx, userID, msg); err != nil {
		log.Printf("[redemption] buyer notify failed for user %d: %v", userID, err)
		metrics.DeliveryFailures.WithLabelValues("notify").Inc()
	}
}
