package stores

import (
	"context"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormPlayerStore struct {
	DB *gorm.DB
}

func (s *GormPlayerStore) FindPlayerByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	var p domain.Player
	if err := s.DB.WithContext(ctx).Where("player_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrapf(err, "find player %s", id)
	}
	return &p, nil
}

func (s *GormPlayerStore) SetPlayerClub(ctx context.Context, playerID, clubID uuid.UUID) error {
	result := s.DB.WithContext(ctx).Model(&domain.Player{}).
		Where("player_id = ?", playerID).
		Update("club_id", clubID)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "set club of player %s", playerID)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s *GormPlayerStore) CreatePlayer(ctx context.Context, p *domain.Player) error {
	return errors.Wrap(s.DB.WithContext(ctx).Create(p).Error, "create player")
}

// ListPlayers returns all players, or only those of clubID when it is set.
func (s *GormPlayerStore) ListPlayers(ctx context.Context, clubID *uuid.UUID) ([]domain.Player, error) {
	q := s.DB.WithContext(ctx).Order("name ASC")
	if clubID != nil {
		q = q.Where("club_id = ?", *clubID)
	}
	var out []domain.Player
	if err := q.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list players")
	}
	return out, nil
}

type GormClubStore struct {
	DB *gorm.DB
}

func (s *GormClubStore) FindClubByID(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	var c domain.Club
	if err := s.DB.WithContext(ctx).Where("club_id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrapf(err, "find club %s", id)
	}
	return &c, nil
}

func (s *GormClubStore) FindClubByName(ctx context.Context, name string) (*domain.Club, error) {
	var c domain.Club
	if err := s.DB.WithContext(ctx).Where("club_name = ?", name).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrapf(err, "find club %q", name)
	}
	return &c, nil
}

func (s *GormClubStore) CreateClub(ctx context.Context, c *domain.Club) error {
	return errors.Wrap(s.DB.WithContext(ctx).Create(c).Error, "create club")
}

func (s *GormClubStore) ListClubs(ctx context.Context) ([]domain.Club, error) {
	var out []domain.Club
	if err := s.DB.WithContext(ctx).Order("club_name ASC").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list clubs")
	}
	return out, nil
}
