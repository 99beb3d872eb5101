package accrual

import (
	"context"
	"log"
	"time"

	"github.com/staffworks/staffbot/internal/domain"
	"github.com/staffworks/staffbot/internal/infra/metrics"
)

// ─── Voice Presence / AFK Path ──────────────────────────────────────────────

// VoiceTracker visits every monitored voice channel once per tick. Active
// members (not self-muted, not self-deafened) earn one voice minute and a
// VC_REWARD entry per tick. Members idle for idleThreshold consecutive
// ticks are moved to the AFK channel, best-effort.
//
// Idle counters are keyed by user ID alone, not (guild, user): a member
// present in two monitored guilds at once shares a single counter. Known
// cross-guild aliasing, kept for compatibility with observed behavior.
type VoiceTracker struct {
	ledger        domain.LedgerStore
	presence      domain.PresenceSource
	mover         domain.MemberMover
	scope         *ChannelScope
	afkChannelID  string
	idleThreshold int
	interval      time.Duration
	idle          *tally
}

// NewVoiceTracker builds the voice path over the given voice-channel scope.
// idleThreshold falls back to 5 ticks, interval to one minute.
func NewVoiceTracker(ledger domain.LedgerStore, presence domain.PresenceSource, mover domain.MemberMover, scope *ChannelScope, afkChannelID string, idleThreshold int, interval time.Duration) *VoiceTracker {
	if idleThreshold <= 0 {
		idleThreshold = 5
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &VoiceTracker{
		ledger:        ledger,
		presence:      presence,
		mover:         mover,
		scope:         scope,
		afkChannelID:  afkChannelID,
		idleThreshold: idleThreshold,
		interval:      interval,
		idle:          newTally(),
	}
}

// Run drives Tick on a fixed interval until ctx is canceled. A failing tick
// never stops the loop.
func (v *VoiceTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	log.Printf("[accrual] voice tracker started, interval=%s threshold=%d", v.interval, v.idleThreshold)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[accrual] voice tracker stopped")
			return
		case <-ticker.C:
			v.Tick(ctx)
		}
	}
}

// Tick processes one voice-presence snapshot. Per-member persistence
// failures abort only that member's reward; move failures are swallowed.
func (v *VoiceTracker) Tick(ctx context.Context) {
	channels, err := v.presence.VoiceChannels(ctx)
	if err != nil {
		log.Printf("[accrual] presence snapshot failed: %v", err)
		return
	}

	for _, ch := range channels {
		if ch.ID == v.afkChannelID {
			continue
		}
		if !v.scope.Eligible(ch.ID) {
			continue
		}
		for _, member := range ch.Members {
			if member.Bot {
				continue
			}
			v.visit(ctx, member)
		}
	}
}

func (v *VoiceTracker) visit(ctx context.Context, member domain.VoiceMember) {
	if member.SelfMute || member.SelfDeaf {
		ticks := v.idle.bump(member.UserID)
		if ticks >= v.idleThreshold && member.ChannelID != v.afkChannelID {
			if err := v.mover.MoveToChannel(ctx, member.UserID, v.afkChannelID); err != nil {
				// Best-effort: member may have disconnected mid-tick.
				log.Printf("[accrual] move to AFK failed for user %d: %v", member.UserID, err)
				metrics.AFKMoves.WithLabelValues("error").Inc()
				metrics.DeliveryFailures.WithLabelValues("move").Inc()
			} else {
				metrics.AFKMoves.WithLabelValues("ok").Inc()
			}
		}
		return
	}

	v.idle.reset(member.UserID)
	if err := v.ledger.IncrementVCMinutes(ctx, member.UserID, 1); err != nil {
		log.Printf("[accrual] vc reward failed for user %d: %v", member.UserID, err)
		return
	}
	metrics.VCRewards.Inc()
}

// IdleTicks reports the member's current consecutive idle count. Exposed
// for the ops API.
func (v *VoiceTracker) IdleTicks(userID int64) int {
	v.idle.mu.Lock()
	defer v.idle.mu.Unlock()
	return v.idle.counts[userID]
}
