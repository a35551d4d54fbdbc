package transfers

import (
	"context"
	"encoding/json"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func newEvent(transferID uuid.UUID, eventType string, actor Actor, data map[string]interface{}) (*domain.TransferEvent, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &domain.TransferEvent{
		TransferID:  transferID,
		EventType:   eventType,
		ActorRole:   actor.Role,
		ActorClubID: actor.ClubID,
		EventData:   datatypes.JSON(b),
	}, nil
}

// History returns the audit trail of one transfer, oldest first.
func (s *Service) History(ctx context.Context, actor Actor, id uuid.UUID) ([]domain.TransferEvent, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	if s.Events == nil {
		return []domain.TransferEvent{}, nil
	}
	var events []domain.TransferEvent
	err := s.read(ctx, "list events", func(ctx context.Context) error {
		var err error
		events, err = s.Events.ListForTransfer(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr("Failed to load transfer history", err)
	}
	return events, nil
}
