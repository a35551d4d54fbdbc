package stores

import (
	"context"
	"fmt"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormTransferStore struct {
	DB *gorm.DB
}

func (s *GormTransferStore) Save(ctx context.Context, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	if err := s.DB.WithContext(ctx).Create(tr).Error; err != nil {
		return nil, errors.Wrap(err, "create transfer request")
	}
	return tr, nil
}

func (s *GormTransferStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.TransferRequest, error) {
	var tr domain.TransferRequest
	if err := s.DB.WithContext(ctx).Where("transfer_id = ?", id).First(&tr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrapf(err, "find transfer request %s", id)
	}
	return &tr, nil
}

func (s *GormTransferStore) FindByField(ctx context.Context, field domain.TransferField, value interface{}) ([]domain.TransferRequest, error) {
	if !field.Valid() {
		return nil, errors.Errorf("unsupported transfer field %q", field)
	}
	var out []domain.TransferRequest
	err := s.DB.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", field), value).
		Order(`"createdAt" DESC`).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find transfer requests by %s", field)
	}
	return out, nil
}

// Update writes the mutable columns only when the stored status still equals expected.
func (s *GormTransferStore) Update(ctx context.Context, tr *domain.TransferRequest, expected domain.TransferStatus) error {
	db := s.DB.WithContext(ctx)
	result := db.Model(&domain.TransferRequest{}).
		Where("transfer_id = ? AND status = ?", tr.TransferID, expected).
		Updates(map[string]interface{}{
			"destination_club_id":     tr.DestinationClubID,
			"status":                  tr.Status,
			"release_fee":             tr.ReleaseFee,
			"transfer_fee":            tr.TransferFee,
			"remarks":                 tr.Remarks,
			"approved_by_source_date": tr.ApprovedBySourceDate,
			"completed_date":          tr.CompletedDate,
			"cancelled_date":          tr.CancelledDate,
		})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "update transfer request %s", tr.TransferID)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&domain.TransferRequest{}).Where("transfer_id = ?", tr.TransferID).Count(&count).Error; err != nil {
		return errors.Wrapf(err, "check transfer request %s", tr.TransferID)
	}
	if count == 0 {
		return domain.ErrRecordNotFound
	}
	return domain.ErrStaleRecord
}

// CountByStatus returns the number of transfers per status.
func (s *GormTransferStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.DB.WithContext(ctx).Model(&domain.TransferRequest{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count transfer requests")
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
