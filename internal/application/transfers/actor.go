package transfers

import (
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

// Actor identifies the caller of an engine operation.
type Actor struct {
	UserID   uuid.UUID
	Role     string
	ClubID   *uuid.UUID
	PlayerID *uuid.UUID
}

func (a Actor) IsAdmin() bool {
	return a.Role == constants.SystemAdmin
}

// IsClubStaff is true for owners and managers attached to a club.
func (a Actor) IsClubStaff() bool {
	return constants.IsClubStaff(a.Role) && a.ClubID != nil
}

func (a Actor) ManagesClub(clubID uuid.UUID) bool {
	return a.IsClubStaff() && *a.ClubID == clubID
}

func (a Actor) IsPlayer(playerID uuid.UUID) bool {
	return a.Role == constants.Player && a.PlayerID != nil && *a.PlayerID == playerID
}

// CanView reports whether the actor may read a transfer and its history.
// In-market listings are public, like the market itself.
func (a Actor) CanView(tr *domain.TransferRequest) bool {
	switch {
	case a.IsAdmin(), tr.Status == domain.StatusInMarket:
		return true
	case a.IsPlayer(tr.PlayerID), a.ManagesClub(tr.SourceClubID):
		return true
	case tr.DestinationClubID != nil && a.ManagesClub(*tr.DestinationClubID):
		return true
	}
	return false
}
