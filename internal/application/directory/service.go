package directory

import (
	"context"
	"errors"
	"strings"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

var (
	ErrClubNameRequired   = errors.New("Club name is required")
	ErrClubExists         = errors.New("Club name already exists")
	ErrClubNotFound       = errors.New("Club not found")
	ErrPlayerNameRequired = errors.New("Player name is required")
	ErrInvalidPlayerName  = errors.New("Player name may only contain letters, spaces, hyphens, apostrophes and dots")
	ErrInvalidPosition    = errors.New("Invalid position")
	ErrInvalidAge         = errors.New("Age must be between 14 and 50")
	ErrInvalidJersey      = errors.New("Jersey number must be between 1 and 99")
	ErrPlayerNotFound     = errors.New("Player not found")
)

type ClubRepository interface {
	CreateClub(ctx context.Context, c *domain.Club) error
	ListClubs(ctx context.Context) ([]domain.Club, error)
	FindClubByID(ctx context.Context, id uuid.UUID) (*domain.Club, error)
	FindClubByName(ctx context.Context, name string) (*domain.Club, error)
}

type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p *domain.Player) error
	ListPlayers(ctx context.Context, clubID *uuid.UUID) ([]domain.Player, error)
	FindPlayerByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
}

// Service manages the clubs and players that transfers refer to.
type Service struct {
	Clubs   ClubRepository
	Players PlayerRepository
}

func (s *Service) CreateClub(ctx context.Context, name string) (*domain.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrClubNameRequired
	}
	_, err := s.Clubs.FindClubByName(ctx, name)
	if err == nil {
		return nil, ErrClubExists
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}
	c := &domain.Club{ClubName: name}
	if err := s.Clubs.CreateClub(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListClubs(ctx context.Context) ([]domain.Club, error) {
	return s.Clubs.ListClubs(ctx)
}

func (s *Service) GetClub(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	c, err := s.Clubs.FindClubByID(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, ErrClubNotFound
	}
	return c, err
}

type CreatePlayerInput struct {
	Name     string
	Age      int
	Jersey   int
	Position string
	Injured  bool
	ClubID   *uuid.UUID
}

func (s *Service) CreatePlayer(ctx context.Context, in CreatePlayerInput) (*domain.Player, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if !validation.IsValidPersonName(name) {
		return nil, ErrInvalidPlayerName
	}
	position := strings.ToUpper(strings.TrimSpace(in.Position))
	if position != "" && !domain.IsValidPosition(position) {
		return nil, ErrInvalidPosition
	}
	if in.Age != 0 && (in.Age < 14 || in.Age > 50) {
		return nil, ErrInvalidAge
	}
	if in.Jersey != 0 && (in.Jersey < 1 || in.Jersey > 99) {
		return nil, ErrInvalidJersey
	}
	if in.ClubID != nil {
		if _, err := s.GetClub(ctx, *in.ClubID); err != nil {
			return nil, err
		}
	}
	p := &domain.Player{
		Name:     name,
		Age:      in.Age,
		Jersey:   in.Jersey,
		Position: position,
		Injured:  in.Injured,
		ClubID:   in.ClubID,
	}
	if err := s.Players.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlayers lists every player, or a single club's squad when clubID is set.
func (s *Service) ListPlayers(ctx context.Context, clubID *uuid.UUID) ([]domain.Player, error) {
	return s.Players.ListPlayers(ctx, clubID)
}

func (s *Service) GetPlayer(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	p, err := s.Players.FindPlayerByID(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	return p, err
}
