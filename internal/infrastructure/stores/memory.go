package stores

import (
	"context"
	"sync"
	"time"

	"clubhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MemoryTransferStore keeps transfer records in a map. It has no transactions.
type MemoryTransferStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.TransferRequest
	order   []uuid.UUID

	// ErrToReturn, when set, is returned by every call.
	ErrToReturn error
}

func NewMemoryTransferStore() *MemoryTransferStore {
	return &MemoryTransferStore{records: make(map[uuid.UUID]domain.TransferRequest)}
}

func (s *MemoryTransferStore) Save(ctx context.Context, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if tr.TransferID == uuid.Nil {
		tr.TransferID = uuid.New()
	}
	if _, ok := s.records[tr.TransferID]; ok {
		return nil, errors.Errorf("transfer request %s already exists", tr.TransferID)
	}
	now := time.Now().UTC()
	tr.CreatedAt, tr.UpdatedAt = now, now
	s.records[tr.TransferID] = tr.Clone()
	s.order = append(s.order, tr.TransferID)
	return tr, nil
}

func (s *MemoryTransferStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.TransferRequest, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	out := tr.Clone()
	return &out, nil
}

func (s *MemoryTransferStore) FindByField(ctx context.Context, field domain.TransferField, value interface{}) ([]domain.TransferRequest, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if !field.Valid() {
		return nil, errors.Errorf("unsupported transfer field %q", field)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.TransferRequest{}
	for i := len(s.order) - 1; i >= 0; i-- {
		tr := s.records[s.order[i]]
		if matches(tr, field, value) {
			out = append(out, tr.Clone())
		}
	}
	return out, nil
}

func (s *MemoryTransferStore) Update(ctx context.Context, tr *domain.TransferRequest, expected domain.TransferStatus) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[tr.TransferID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if cur.Status != expected {
		return domain.ErrStaleRecord
	}
	next := tr.Clone()
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	s.records[tr.TransferID] = next
	return nil
}

func (s *MemoryTransferStore) check(ctx context.Context) error {
	if s.ErrToReturn != nil {
		return s.ErrToReturn
	}
	return ctx.Err()
}

func matches(tr domain.TransferRequest, field domain.TransferField, value interface{}) bool {
	switch field {
	case domain.FieldPlayerID:
		return sameUUID(tr.PlayerID, value)
	case domain.FieldSourceClubID:
		return sameUUID(tr.SourceClubID, value)
	case domain.FieldDestinationClubID:
		return tr.DestinationClubID != nil && sameUUID(*tr.DestinationClubID, value)
	case domain.FieldStatus:
		switch v := value.(type) {
		case domain.TransferStatus:
			return tr.Status == v
		case string:
			return string(tr.Status) == v
		}
	}
	return false
}

func sameUUID(id uuid.UUID, value interface{}) bool {
	switch v := value.(type) {
	case uuid.UUID:
		return id == v
	case string:
		return id.String() == v
	}
	return false
}

// MemoryDirectory holds players and clubs.
type MemoryDirectory struct {
	mu      sync.Mutex
	players map[uuid.UUID]domain.Player
	clubs   map[uuid.UUID]domain.Club

	ErrToReturn error
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		players: make(map[uuid.UUID]domain.Player),
		clubs:   make(map[uuid.UUID]domain.Club),
	}
}

// AddClub stores c, assigning an ID if it has none.
func (d *MemoryDirectory) AddClub(c domain.Club) domain.Club {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.ClubID == uuid.Nil {
		c.ClubID = uuid.New()
	}
	d.clubs[c.ClubID] = c
	return c
}

func (d *MemoryDirectory) AddPlayer(p domain.Player) domain.Player {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.PlayerID == uuid.Nil {
		p.PlayerID = uuid.New()
	}
	d.players[p.PlayerID] = p
	return p
}

func (d *MemoryDirectory) FindPlayerByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if p.ClubID != nil {
		c := *p.ClubID
		p.ClubID = &c
	}
	return &p, nil
}

func (d *MemoryDirectory) SetPlayerClub(ctx context.Context, playerID, clubID uuid.UUID) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[playerID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	p.ClubID = &clubID
	d.players[playerID] = p
	return nil
}

func (d *MemoryDirectory) FindClubByID(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.clubs[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &c, nil
}

func (d *MemoryDirectory) check(ctx context.Context) error {
	if d.ErrToReturn != nil {
		return d.ErrToReturn
	}
	return ctx.Err()
}

// MemoryEventStore appends events in memory.
type MemoryEventStore struct {
	mu     sync.Mutex
	events []domain.TransferEvent
}

func (s *MemoryEventStore) Record(ctx context.Context, ev *domain.TransferEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.EventID == uuid.Nil {
		ev.EventID = uuid.New()
	}
	ev.CreatedAt = time.Now().UTC()
	s.events = append(s.events, *ev)
	return nil
}

func (s *MemoryEventStore) ListForTransfer(ctx context.Context, transferID uuid.UUID) ([]domain.TransferEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.TransferEvent{}
	for _, ev := range s.events {
		if ev.TransferID == transferID {
			out = append(out, ev)
		}
	}
	return out, nil
}
