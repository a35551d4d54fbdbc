package transfers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultStoreTimeout bounds each store call when Service.StoreTimeout is zero.
const DefaultStoreTimeout = 5 * time.Second

const msgNoLongerAvailable = "Player is no longer available"

// Service is the transfer workflow engine. Events and Tx are optional: without
// Tx each store call commits on its own and event writes are best-effort.
type Service struct {
	Transfers    TransferStore
	Players      PlayerDirectory
	Clubs        ClubDirectory
	Events       EventLog
	Tx           TxRunner
	Clock        clockwork.Clock
	StoreTimeout time.Duration
	Log          *zerolog.Logger
}

func (s *Service) clock() clockwork.Clock {
	if s.Clock == nil {
		return clockwork.NewRealClock()
	}
	return s.Clock
}

func (s *Service) logger() *zerolog.Logger {
	if s.Log == nil {
		return &log.Logger
	}
	return s.Log
}

func (s *Service) repos() Repos {
	return Repos{Transfers: s.Transfers, Players: s.Players, Events: s.Events}
}

// atomically runs fn in a transaction when one is available, otherwise
// directly against the service's own stores.
func (s *Service) atomically(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	if s.Tx == nil {
		return fn(ctx, s.repos())
	}
	return s.Tx.InTx(ctx, fn)
}

// stamp returns now, clamped so it is never earlier than any of the given times.
func (s *Service) stamp(after ...*time.Time) time.Time {
	now := s.clock().Now().UTC()
	for _, t := range after {
		if t != nil && now.Before(*t) {
			now = *t
		}
	}
	return now
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.TransferRequest, error) {
	var tr *domain.TransferRequest
	err := s.read(ctx, "find transfer", func(ctx context.Context) error {
		var err error
		tr, err = s.Transfers.FindByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, notFoundf("Transfer request not found")
		}
		return nil, storeErr("Failed to load transfer request", err)
	}
	return tr, nil
}

func (s *Service) findPlayer(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	var p *domain.Player
	err := s.read(ctx, "find player", func(ctx context.Context) error {
		var err error
		p, err = s.Players.FindPlayerByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, notFoundf("Player not found")
		}
		return nil, storeErr("Failed to load player", err)
	}
	return p, nil
}

func (s *Service) findClub(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	var c *domain.Club
	err := s.read(ctx, "find club", func(ctx context.Context) error {
		var err error
		c, err = s.Clubs.FindClubByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, notFoundf("Club not found")
		}
		return nil, storeErr("Failed to load club", err)
	}
	return c, nil
}

func (s *Service) findByField(ctx context.Context, field domain.TransferField, value interface{}) ([]domain.TransferRequest, error) {
	var out []domain.TransferRequest
	err := s.read(ctx, "find transfers by "+string(field), func(ctx context.Context) error {
		var err error
		out, err = s.Transfers.FindByField(ctx, field, value)
		return err
	})
	if err != nil {
		return nil, storeErr("Failed to list transfer requests", err)
	}
	return out, nil
}

// update applies a compare-and-set on the record's status. A lost race is
// reported as an invalid-state error carrying staleMsg.
func (s *Service) update(ctx context.Context, r Repos, tr *domain.TransferRequest, expected domain.TransferStatus, staleMsg string) error {
	err := s.write(ctx, "update transfer", func(ctx context.Context) error {
		return r.Transfers.Update(ctx, tr, expected)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrStaleRecord):
		return &Error{Kind: KindInvalidState, Message: staleMsg, Err: err}
	case errors.Is(err, domain.ErrRecordNotFound):
		return notFoundf("Transfer request not found")
	}
	return err
}

func (s *Service) recordEvent(ctx context.Context, r Repos, tr *domain.TransferRequest, eventType string, actor Actor, data map[string]interface{}) error {
	if r.Events == nil {
		return nil
	}
	ev, err := newEvent(tr.TransferID, eventType, actor, data)
	if err != nil {
		return err
	}
	err = s.write(ctx, "record event", func(ctx context.Context) error {
		return r.Events.Record(ctx, ev)
	})
	if err != nil && s.Tx == nil {
		s.logger().Warn().Err(err).Str("transfer_id", tr.TransferID.String()).Str("event", eventType).
			Msg("transfer event not recorded")
		return nil
	}
	return err
}

// storeErr leaves workflow errors untouched and adds context to the rest.
func storeErr(msg string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
