package transfers

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
)

// TransferStore persists transfer records. Update is a compare-and-set on
// status: it fails with domain.ErrStaleRecord when the stored status is no
// longer expected.
type TransferStore interface {
	Save(ctx context.Context, tr *domain.TransferRequest) (*domain.TransferRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TransferRequest, error)
	FindByField(ctx context.Context, field domain.TransferField, value interface{}) ([]domain.TransferRequest, error)
	Update(ctx context.Context, tr *domain.TransferRequest, expected domain.TransferStatus) error
}

type PlayerDirectory interface {
	FindPlayerByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	SetPlayerClub(ctx context.Context, playerID, clubID uuid.UUID) error
}

type ClubDirectory interface {
	FindClubByID(ctx context.Context, id uuid.UUID) (*domain.Club, error)
}

type EventLog interface {
	Record(ctx context.Context, ev *domain.TransferEvent) error
	ListForTransfer(ctx context.Context, transferID uuid.UUID) ([]domain.TransferEvent, error)
}

// Repos is the set of stores a transaction hands to its callback.
type Repos struct {
	Transfers TransferStore
	Players   PlayerDirectory
	Events    EventLog
}

// TxRunner runs fn with stores bound to one transaction. fn's error rolls it back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
