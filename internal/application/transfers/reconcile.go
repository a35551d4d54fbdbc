package transfers

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
)

// Reconcile moves the player of a completed transfer to its destination club
// if an earlier purchase left them behind. Running it again is a no-op.
func (s *Service) Reconcile(ctx context.Context, actor Actor, id uuid.UUID) (*TransferView, error) {
	tr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.Status != domain.StatusCompleted || tr.DestinationClubID == nil {
		return nil, invalidStatef("Only completed transfers can be reconciled")
	}
	if !actor.IsAdmin() {
		return nil, authorizationf("Only system administrators can reconcile transfers")
	}

	player, err := s.findPlayer(ctx, tr.PlayerID)
	if err != nil {
		return nil, err
	}
	dest := *tr.DestinationClubID
	if player.ClubID != nil && *player.ClubID == dest {
		return s.view(ctx, tr), nil
	}

	err = s.atomically(ctx, func(ctx context.Context, r Repos) error {
		if err := s.write(ctx, "reassign player", func(ctx context.Context) error {
			return r.Players.SetPlayerClub(ctx, tr.PlayerID, dest)
		}); err != nil {
			return err
		}
		from := ""
		if player.ClubID != nil {
			from = player.ClubID.String()
		}
		return s.recordEvent(ctx, r, tr, domain.EventReconciled, actor, map[string]interface{}{
			"from_club_id": from,
			"to_club_id":   dest.String(),
		})
	})
	if err != nil {
		return nil, storeErr("Failed to reconcile transfer", err)
	}

	s.logger().Info().Str("transfer_id", id.String()).Str("player_id", tr.PlayerID.String()).Msg("transfer reconciled")
	return s.view(ctx, tr), nil
}
