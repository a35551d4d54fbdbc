// Package seed creates the bootstrap administrator and, optionally, a small
// demo league for local development.
package seed

import (
	"context"
	"errors"

	authsvc "clubhub-backend/internal/application/auth"
	dirsvc "clubhub-backend/internal/application/directory"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/infrastructure/stores"
	"clubhub-backend/internal/pkg/constants"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	AdminUsername = "admin"
	AdminEmail    = "admin@clubhub.local"
)

type Options struct {
	AdminPassword string
	// Demo adds two clubs with managers and one player account. Demo accounts
	// share the admin password.
	Demo bool
}

type Result struct {
	AdminCreated bool
	Clubs        []domain.Club
	Players      []domain.Player
	Users        []string
}

var demoClubs = []string{"Harbour FC", "Uplands United"}

// Run is idempotent: existing accounts, clubs and players are left alone.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.AdminPassword == "" {
		return nil, errors.New("admin password is required (SEED_ADMIN_PASSWORD)")
	}
	res := &Result{}
	created, err := ensureUser(ctx, db, authsvc.CreateUserInput{
		Username: AdminUsername,
		Email:    AdminEmail,
		Password: opts.AdminPassword,
		Role:     constants.SystemAdmin,
	})
	if err != nil {
		return nil, err
	}
	res.AdminCreated = created
	if !opts.Demo {
		return res, nil
	}

	dir := &dirsvc.Service{Clubs: &stores.GormClubStore{DB: db}, Players: &stores.GormPlayerStore{DB: db}}
	for i, name := range demoClubs {
		club, err := ensureClub(ctx, dir, name)
		if err != nil {
			return nil, err
		}
		res.Clubs = append(res.Clubs, *club)
		username := []string{"harbour.manager", "uplands.manager"}[i]
		if _, err := ensureUser(ctx, db, authsvc.CreateUserInput{
			Username: username,
			Email:    username + "@clubhub.local",
			Password: opts.AdminPassword,
			Role:     constants.ClubManager,
			ClubID:   &club.ClubID,
		}); err != nil {
			return nil, err
		}
		res.Users = append(res.Users, username)
	}

	home := res.Clubs[0]
	squad, err := dir.ListPlayers(ctx, &home.ClubID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list demo squad")
	}
	var player *domain.Player
	if len(squad) > 0 {
		player = &squad[0]
	} else {
		player, err = dir.CreatePlayer(ctx, dirsvc.CreatePlayerInput{
			Name:     "Pat Keane",
			Age:      23,
			Jersey:   9,
			Position: domain.PositionForward,
			ClubID:   &home.ClubID,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "create demo player")
		}
	}
	res.Players = append(res.Players, *player)
	if _, err := ensureUser(ctx, db, authsvc.CreateUserInput{
		Username: "pat.keane",
		Email:    "pat.keane@clubhub.local",
		Password: opts.AdminPassword,
		Role:     constants.Player,
		PlayerID: &player.PlayerID,
	}); err != nil {
		return nil, err
	}
	res.Users = append(res.Users, "pat.keane")
	return res, nil
}

func ensureUser(ctx context.Context, db *gorm.DB, in authsvc.CreateUserInput) (bool, error) {
	_, err := authsvc.CreateUser(ctx, db, in)
	switch {
	case err == nil:
		log.Info().Str("username", in.Username).Str("role", in.Role).Msg("seeded user")
		return true, nil
	case errors.Is(err, authsvc.ErrUserExists):
		return false, nil
	}
	return false, pkgerrors.Wrapf(err, "seed user %s", in.Username)
}

func ensureClub(ctx context.Context, dir *dirsvc.Service, name string) (*domain.Club, error) {
	club, err := dir.CreateClub(ctx, name)
	if errors.Is(err, dirsvc.ErrClubExists) {
		club, err = dir.Clubs.FindClubByName(ctx, name)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "seed club %s", name)
	}
	return club, nil
}
