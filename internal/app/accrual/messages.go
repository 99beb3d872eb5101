package accrual

import (
	"context"
	"fmt"

	"github.com/staffworks/staffbot/internal/domain"
	"github.com/staffworks/staffbot/internal/infra/metrics"
)

// ─── Message Reward Path ────────────────────────────────────────────────────

// MessageRewarder credits members for chat activity: every Threshold
// eligible messages earn Reward points. The per-user counter lives in
// process memory only.
type MessageRewarder struct {
	ledger    domain.LedgerStore
	scope     *ChannelScope
	threshold int
	reward    int64
	counts    *tally
}

// NewMessageRewarder builds the message path over the given text-channel
// scope. threshold and reward fall back to 5 and 1 when non-positive.
func NewMessageRewarder(ledger domain.LedgerStore, scope *ChannelScope, threshold int, reward int64) *MessageRewarder {
	if threshold <= 0 {
		threshold = 5
	}
	if reward <= 0 {
		reward = 1
	}
	return &MessageRewarder{
		ledger:    ledger,
		scope:     scope,
		threshold: threshold,
		reward:    reward,
		counts:    newTally(),
	}
}

// RecordMessage processes one inbound chat message. Messages in channels
// outside the enabled scope have no effect. Reaching the threshold credits
// the reward, appends a MESSAGE_REWARD entry, and resets the counter.
// Bot-authored messages are filtered upstream by the gateway.
//
// On a persistence failure the counter is left at the threshold so the next
// eligible message retries the credit.
func (m *MessageRewarder) RecordMessage(ctx context.Context, userID int64, channelID string) error {
	if !m.scope.Eligible(channelID) {
		return nil
	}

	if m.counts.bump(userID) < m.threshold {
		return nil
	}

	if _, err := m.ledger.AdjustBalance(ctx, userID, m.reward, false, domain.TxMessageReward); err != nil {
		return fmt.Errorf("message reward for user %d: %w", userID, err)
	}
	m.counts.reset(userID)
	metrics.MessageRewards.Inc()
	return nil
}
