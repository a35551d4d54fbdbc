package transfers

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
)

// TransferView is a transfer record with display names resolved at read time.
type TransferView struct {
	domain.TransferRequest
	PlayerName          string `json:"player_name"`
	SourceClubName      string `json:"source_club_name"`
	DestinationClubName string `json:"destination_club_name"`
}

// MarketListing is an in-market transfer as seen by one actor.
type MarketListing struct {
	TransferView
	CanPurchase bool `json:"can_purchase"`
}

type nameCache struct {
	players map[uuid.UUID]string
	clubs   map[uuid.UUID]string
}

func newNameCache() *nameCache {
	return &nameCache{players: map[uuid.UUID]string{}, clubs: map[uuid.UUID]string{}}
}

// enrich never fails: a name that cannot be resolved is left empty.
func (s *Service) enrich(ctx context.Context, records []domain.TransferRequest) []TransferView {
	names := newNameCache()
	out := make([]TransferView, 0, len(records))
	for _, tr := range records {
		out = append(out, s.enrichOne(ctx, names, tr))
	}
	return out
}

func (s *Service) view(ctx context.Context, tr *domain.TransferRequest) *TransferView {
	v := s.enrichOne(ctx, newNameCache(), *tr)
	return &v
}

func (s *Service) enrichOne(ctx context.Context, names *nameCache, tr domain.TransferRequest) TransferView {
	v := TransferView{
		TransferRequest: tr,
		PlayerName:      s.playerName(ctx, names, tr.PlayerID),
		SourceClubName:  s.clubName(ctx, names, tr.SourceClubID),
	}
	if tr.DestinationClubID != nil {
		v.DestinationClubName = s.clubName(ctx, names, *tr.DestinationClubID)
	}
	return v
}

func (s *Service) playerName(ctx context.Context, names *nameCache, id uuid.UUID) string {
	if n, ok := names.players[id]; ok {
		return n
	}
	var name string
	p, err := s.findPlayer(ctx, id)
	if err != nil {
		s.logger().Warn().Err(err).Str("player_id", id.String()).Msg("player name unavailable")
	} else {
		name = p.Name
	}
	names.players[id] = name
	return name
}

func (s *Service) clubName(ctx context.Context, names *nameCache, id uuid.UUID) string {
	if n, ok := names.clubs[id]; ok {
		return n
	}
	var name string
	c, err := s.findClub(ctx, id)
	if err != nil {
		s.logger().Warn().Err(err).Str("club_id", id.String()).Msg("club name unavailable")
	} else {
		name = c.ClubName
	}
	names.clubs[id] = name
	return name
}
