package stores

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormEventStore struct {
	DB *gorm.DB
}

func (s *GormEventStore) Record(ctx context.Context, ev *domain.TransferEvent) error {
	return errors.Wrap(s.DB.WithContext(ctx).Create(ev).Error, "record transfer event")
}

func (s *GormEventStore) ListForTransfer(ctx context.Context, transferID uuid.UUID) ([]domain.TransferEvent, error) {
	var out []domain.TransferEvent
	err := s.DB.WithContext(ctx).Where("transfer_id = ?", transferID).Order(`"createdAt" ASC`).Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list transfer events")
	}
	return out, nil
}
