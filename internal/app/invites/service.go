// Package invites tracks member joins attributed to inviters, including
// rejoins and fake-join flagging.
package invites

import (
	"context"
	"log"

	"github.com/staffworks/staffbot/internal/domain"
)

// Service wraps the invite store with gateway-facing operations.
type Service struct {
	store domain.InviteStore
}

// New builds the invite service.
func New(store domain.InviteStore) *Service {
	return &Service{store: store}
}

// MemberJoined logs a join. inviterID is 0 when attribution is unknown.
func (s *Service) MemberJoined(ctx context.Context, userID, inviterID int64) (domain.InviteLog, error) {
	l, err := s.store.RecordJoin(ctx, userID, inviterID)
	if err != nil {
		return domain.InviteLog{}, err
	}
	if l.RejoinCount > 0 {
		log.Printf("[invites] user %d rejoined (count=%d, inviter=%d)", userID, l.RejoinCount, l.InviterID)
	}
	return l, nil
}

// MemberLeft stamps the member's departure.
func (s *Service) MemberLeft(ctx context.Context, userID int64) error {
	return s.store.RecordLeave(ctx, userID)
}

// FlagFake marks a join as fake so it stops counting for the inviter.
func (s *Service) FlagFake(ctx context.Context, userID int64) error {
	return s.store.MarkFake(ctx, userID)
}

// CountFor returns the inviter's current counted joins.
func (s *Service) CountFor(ctx context.Context, inviterID int64) (int, error) {
	return s.store.InviterCount(ctx, inviterID)
}
