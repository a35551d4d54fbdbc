package transfers

import (
	"context"
	"sort"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
)

// ListInMarket returns every in-market transfer, flagging the ones the actor may buy.
func (s *Service) ListInMarket(ctx context.Context, actor Actor) ([]MarketListing, error) {
	records, err := s.findByField(ctx, domain.FieldStatus, domain.StatusInMarket)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	views := s.enrich(ctx, records)
	out := make([]MarketListing, 0, len(views))
	for i := range views {
		out = append(out, MarketListing{
			TransferView: views[i],
			CanPurchase:  purchaseDenied(actor, &records[i]) == nil,
		})
	}
	return out, nil
}

// ListForClub returns transfers where the club is either source or destination.
func (s *Service) ListForClub(ctx context.Context, clubID uuid.UUID) ([]TransferView, error) {
	if clubID == uuid.Nil {
		return nil, validationf("club_id is required")
	}
	outgoing, err := s.findByField(ctx, domain.FieldSourceClubID, clubID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.findByField(ctx, domain.FieldDestinationClubID, clubID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(outgoing)+len(incoming))
	records := make([]domain.TransferRequest, 0, len(outgoing)+len(incoming))
	for _, tr := range append(outgoing, incoming...) {
		if seen[tr.TransferID] {
			continue
		}
		seen[tr.TransferID] = true
		records = append(records, tr)
	}
	sortNewestFirst(records)
	return s.enrich(ctx, records), nil
}

func (s *Service) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]TransferView, error) {
	if playerID == uuid.Nil {
		return nil, validationf("player_id is required")
	}
	records, err := s.findByField(ctx, domain.FieldPlayerID, playerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return s.enrich(ctx, records), nil
}

// ListAll is the administrator's view of every transfer.
func (s *Service) ListAll(ctx context.Context, actor Actor) ([]TransferView, error) {
	if !actor.IsAdmin() {
		return nil, authorizationf("Only system administrators can list all transfers")
	}
	var records []domain.TransferRequest
	for _, status := range domain.TransferStatuses {
		batch, err := s.findByField(ctx, domain.FieldStatus, status)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	sortNewestFirst(records)
	return s.enrich(ctx, records), nil
}

// Get returns one transfer the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*TransferView, error) {
	tr, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, tr), nil
}

func (s *Service) loadVisible(ctx context.Context, actor Actor, id uuid.UUID) (*domain.TransferRequest, error) {
	tr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(tr) {
		return nil, authorizationf("You do not have access to this transfer")
	}
	return tr, nil
}

// FilterByStatus keeps the views in the given status. An empty status keeps all.
func FilterByStatus(views []TransferView, status domain.TransferStatus) []TransferView {
	if status == "" {
		return views
	}
	out := make([]TransferView, 0, len(views))
	for _, v := range views {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

func sortNewestFirst(records []domain.TransferRequest) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].RequestDate, records[j].RequestDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}
