package transfers

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	PlayerID          uuid.UUID
	SourceClubID      uuid.UUID
	DestinationClubID *uuid.UUID
	Remarks           string
}

type PurchaseInput struct {
	// TransferFee overrides the release fee when set.
	TransferFee *decimal.Decimal
}

// Submit opens a transfer request on behalf of the player. A destination club
// makes it a direct transfer, otherwise it goes to the general market.
func (s *Service) Submit(ctx context.Context, actor Actor, in SubmitInput) (*TransferView, error) {
	if in.PlayerID == uuid.Nil {
		return nil, validationf("player_id is required")
	}
	if in.SourceClubID == uuid.Nil {
		return nil, validationf("source_club_id is required")
	}
	if in.DestinationClubID != nil && *in.DestinationClubID == uuid.Nil {
		in.DestinationClubID = nil
	}
	if in.DestinationClubID != nil && *in.DestinationClubID == in.SourceClubID {
		return nil, validationf("Destination club must differ from the source club")
	}

	player, err := s.findPlayer(ctx, in.PlayerID)
	if err != nil {
		return nil, err
	}
	transferType := domain.TransferGeneralMarket
	if in.DestinationClubID != nil {
		if _, err := s.findClub(ctx, *in.DestinationClubID); err != nil {
			return nil, err
		}
		transferType = domain.TransferDirectClub
	}
	if player.ClubID == nil || *player.ClubID != in.SourceClubID {
		return nil, validationf("Player does not belong to the source club")
	}

	existing, err := s.findByField(ctx, domain.FieldPlayerID, in.PlayerID)
	if err != nil {
		return nil, err
	}
	for _, tr := range existing {
		if !tr.Status.Terminal() {
			return nil, validationf("Player already has an open transfer request")
		}
	}
	if !actor.IsPlayer(in.PlayerID) {
		return nil, authorizationf("Only the player can request their own transfer")
	}

	now := s.stamp()
	tr := &domain.TransferRequest{
		PlayerID:          in.PlayerID,
		SourceClubID:      in.SourceClubID,
		DestinationClubID: in.DestinationClubID,
		TransferType:      transferType,
		Status:            domain.StatusPendingApproval,
		Remarks:           in.Remarks,
		RequestDate:       &now,
	}

	var saved *domain.TransferRequest
	err = s.atomically(ctx, func(ctx context.Context, r Repos) error {
		if err := s.write(ctx, "save transfer", func(ctx context.Context) error {
			var err error
			saved, err = r.Transfers.Save(ctx, tr)
			return err
		}); err != nil {
			return err
		}
		return s.recordEvent(ctx, r, saved, domain.EventSubmitted, actor, map[string]interface{}{
			"transfer_type": transferType,
			"remarks":       in.Remarks,
		})
	})
	if err != nil {
		return nil, storeErr("Failed to submit transfer request", err)
	}

	s.logger().Info().Str("transfer_id", saved.TransferID.String()).Str("player_id", saved.PlayerID.String()).
		Str("transfer_type", string(transferType)).Msg("transfer request submitted")
	return s.view(ctx, saved), nil
}

// Approve lists a pending request in the market at the given release fee.
func (s *Service) Approve(ctx context.Context, actor Actor, id uuid.UUID, fee decimal.Decimal) (*TransferView, error) {
	if err := checkFee("Release fee", fee); err != nil {
		return nil, err
	}
	tr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.Status != domain.StatusPendingApproval {
		return nil, invalidStatef("Transfer request is %s and can no longer be approved", tr.Status)
	}
	if !actor.ManagesClub(tr.SourceClubID) {
		return nil, authorizationf("Only the source club's manager can approve this transfer")
	}

	next := tr.Clone()
	now := s.stamp(tr.RequestDate)
	next.ReleaseFee = decimal.NewNullDecimal(fee)
	next.ApprovedBySourceDate = &now
	next.Status = domain.StatusInMarket

	err = s.atomically(ctx, func(ctx context.Context, r Repos) error {
		if err := s.update(ctx, r, &next, domain.StatusPendingApproval, "Transfer request was changed by someone else"); err != nil {
			return err
		}
		return s.recordEvent(ctx, r, &next, domain.EventApproved, actor, map[string]interface{}{
			"release_fee": fee.String(),
		})
	})
	if err != nil {
		return nil, storeErr("Failed to approve transfer request", err)
	}

	s.logger().Info().Str("transfer_id", id.String()).Str("release_fee", fee.String()).Msg("transfer request approved")
	return s.view(ctx, &next), nil
}

// Purchase completes an in-market transfer for the actor's club and moves the
// player there.
func (s *Service) Purchase(ctx context.Context, actor Actor, id uuid.UUID, in PurchaseInput) (*TransferView, error) {
	if in.TransferFee != nil {
		if err := checkFee("Transfer fee", *in.TransferFee); err != nil {
			return nil, err
		}
	}
	tr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.Status != domain.StatusInMarket {
		return nil, invalidStatef(msgNoLongerAvailable)
	}
	if err := purchaseDenied(actor, tr); err != nil {
		return nil, err
	}
	buyer := *actor.ClubID
	if _, err := s.findClub(ctx, buyer); err != nil {
		return nil, err
	}

	fee := tr.ReleaseFee.Decimal
	if in.TransferFee != nil {
		fee = *in.TransferFee
	}
	next := tr.Clone()
	now := s.stamp(tr.RequestDate, tr.ApprovedBySourceDate)
	next.DestinationClubID = &buyer
	next.TransferFee = decimal.NewNullDecimal(fee)
	next.CompletedDate = &now
	next.Status = domain.StatusCompleted

	var reassignErr error
	err = s.atomically(ctx, func(ctx context.Context, r Repos) error {
		if err := s.update(ctx, r, &next, domain.StatusInMarket, msgNoLongerAvailable); err != nil {
			return err
		}
		reassignErr = s.write(ctx, "reassign player", func(ctx context.Context) error {
			return r.Players.SetPlayerClub(ctx, next.PlayerID, buyer)
		})
		if reassignErr != nil {
			return reassignErr
		}
		return s.recordEvent(ctx, r, &next, domain.EventPurchased, actor, map[string]interface{}{
			"buyer_club_id": buyer.String(),
			"transfer_fee":  fee.String(),
		})
	})
	if err != nil {
		if reassignErr != nil && s.Tx == nil {
			return nil, s.partialFailure(ctx, actor, &next, reassignErr)
		}
		return nil, storeErr("Failed to complete purchase", err)
	}

	s.logger().Info().Str("transfer_id", id.String()).Str("buyer_club_id", buyer.String()).
		Str("transfer_fee", fee.String()).Msg("transfer completed")
	return s.view(ctx, &next), nil
}

// partialFailure handles a committed record whose player move failed. The
// failure is logged as an event so Reconcile can find it.
func (s *Service) partialFailure(ctx context.Context, actor Actor, tr *domain.TransferRequest, cause error) error {
	s.logger().Error().Err(cause).Str("transfer_id", tr.TransferID.String()).Str("player_id", tr.PlayerID.String()).
		Msg("transfer completed but player club was not updated")
	_ = s.recordEvent(ctx, s.repos(), tr, domain.EventPlayerReassignFailed, actor, map[string]interface{}{
		"error": cause.Error(),
	})
	return &Error{
		Kind:    KindPartialFailure,
		Message: "Transfer completed but the player's club was not updated; reconciliation required",
		Err:     cause,
	}
}

// Cancel withdraws a request. The source club's manager may cancel while it is
// open; the player only while it is still pending.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*TransferView, error) {
	tr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.Status.Terminal() {
		return nil, invalidStatef("Transfer request is already %s", tr.Status)
	}
	switch {
	case actor.ManagesClub(tr.SourceClubID):
	case tr.Status == domain.StatusPendingApproval && actor.IsPlayer(tr.PlayerID):
	default:
		return nil, authorizationf("Only the source club's manager or the requesting player can cancel this transfer")
	}

	next := tr.Clone()
	now := s.stamp(tr.RequestDate, tr.ApprovedBySourceDate)
	next.CancelledDate = &now
	next.Status = domain.StatusCancelled

	err = s.atomically(ctx, func(ctx context.Context, r Repos) error {
		if err := s.update(ctx, r, &next, tr.Status, "Transfer request was changed by someone else"); err != nil {
			return err
		}
		return s.recordEvent(ctx, r, &next, domain.EventCancelled, actor, map[string]interface{}{
			"previous_status": tr.Status,
		})
	})
	if err != nil {
		return nil, storeErr("Failed to cancel transfer request", err)
	}

	s.logger().Info().Str("transfer_id", id.String()).Str("previous_status", string(tr.Status)).Msg("transfer request cancelled")
	return s.view(ctx, &next), nil
}

// purchaseDenied returns the authorization error for actor buying tr, or nil.
func purchaseDenied(actor Actor, tr *domain.TransferRequest) error {
	if !actor.IsClubStaff() {
		return authorizationf("Only club managers can purchase players")
	}
	if *actor.ClubID == tr.SourceClubID {
		return authorizationf("Cannot purchase from your own club")
	}
	if tr.TransferType == domain.TransferDirectClub &&
		(tr.DestinationClubID == nil || *tr.DestinationClubID != *actor.ClubID) {
		return authorizationf("This transfer is reserved for another club")
	}
	return nil
}

// Fees are stored as decimal(18,2).
var maxFee = decimal.New(1, 16)

func checkFee(label string, fee decimal.Decimal) error {
	if !fee.IsPositive() {
		return validationf("%s must be greater than 0", label)
	}
	if fee.Exponent() < -2 && !fee.Equal(fee.Round(2)) {
		return validationf("%s can have at most 2 decimal places", label)
	}
	if fee.GreaterThanOrEqual(maxFee) {
		return validationf("%s is too large", label)
	}
	return nil
}
