package gateway

import (
	"context"
	"log"

	"github.com/staffworks/staffbot/internal/domain"
)

// Offline is the stand-in collaborator set used when no chat connector is
// attached: presence snapshots are empty and deliveries are logged no-ops.
// A connector process replaces it with real gateway-backed implementations.
type Offline struct{}

var (
	_ domain.PresenceSource = Offline{}
	_ domain.MemberMover    = Offline{}
	_ domain.Notifier       = Offline{}
	_ domain.Announcer      = Offline{}
)

// VoiceChannels returns an empty snapshot.
func (Offline) VoiceChannels(ctx context.Context) ([]domain.VoiceChannel, error) {
	return nil, nil
}

// MoveToChannel logs and discards the move.
func (Offline) MoveToChannel(ctx context.Context, userID int64, channelID string) error {
	log.Printf("[gateway] offline: drop move of user %d to %s", userID, channelID)
	return nil
}

// Notify logs and discards the message.
func (Offline) Notify(ctx context.Context, userID int64, message string) error {
	log.Printf("[gateway] offline: drop DM to user %d: %s", userID, message)
	return nil
}

// Announce logs and discards the announcement.
func (Offline) Announce(ctx context.Context, message string) error {
	log.Printf("[gateway] offline: drop admin announce: %s", message)
	return nil
}
