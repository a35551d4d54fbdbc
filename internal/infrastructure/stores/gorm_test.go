package stores

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clubhub-backend/internal/application/transfers"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/infrastructure/database"
	"clubhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type gormFixture struct {
	db                  *gorm.DB
	svc                 *transfers.Service
	clubA, clubB, clubC domain.Club
	player              domain.Player
	playerActor         transfers.Actor
}

func setupGormTest(t *testing.T) *gormFixture {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	f := &gormFixture{db: db, svc: NewGormService(db)}
	f.clubA = domain.Club{ClubName: "Athletic"}
	f.clubB = domain.Club{ClubName: "Borough"}
	f.clubC = domain.Club{ClubName: "City"}
	require.NoError(t, db.Create(&f.clubA).Error)
	require.NoError(t, db.Create(&f.clubB).Error)
	require.NoError(t, db.Create(&f.clubC).Error)
	f.player = domain.Player{Name: "Pat Keane", Age: 24, Jersey: 9, Position: domain.PositionForward, ClubID: &f.clubA.ClubID}
	require.NoError(t, db.Create(&f.player).Error)
	pid := f.player.PlayerID
	f.playerActor = transfers.Actor{UserID: uuid.New(), Role: constants.Player, PlayerID: &pid}
	return f
}

func clubManager(c domain.Club) transfers.Actor {
	id := c.ClubID
	return transfers.Actor{UserID: uuid.New(), Role: constants.ClubManager, ClubID: &id}
}

func (f *gormFixture) listed(t *testing.T, fee int64) *transfers.TransferView {
	t.Helper()
	ctx := context.Background()
	v, err := f.svc.Submit(ctx, f.playerActor, transfers.SubmitInput{PlayerID: f.player.PlayerID, SourceClubID: f.clubA.ClubID})
	require.NoError(t, err)
	v, err = f.svc.Approve(ctx, clubManager(f.clubA), v.TransferID, decimal.NewFromInt(fee))
	require.NoError(t, err)
	return v
}

func (f *gormFixture) playerClub(t *testing.T) uuid.UUID {
	t.Helper()
	var p domain.Player
	require.NoError(t, f.db.Where("player_id = ?", f.player.PlayerID).First(&p).Error)
	require.NotNil(t, p.ClubID)
	return *p.ClubID
}

func TestGormTransferStore_SaveFindUpdate(t *testing.T) {
	f := setupGormTest(t)
	ctx := context.Background()
	s := &GormTransferStore{DB: f.db}

	tr := &domain.TransferRequest{
		PlayerID:     f.player.PlayerID,
		SourceClubID: f.clubA.ClubID,
		TransferType: domain.TransferGeneralMarket,
		Status:       domain.StatusPendingApproval,
	}
	saved, err := s.Save(ctx, tr)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.TransferID)

	got, err := s.FindByID(ctx, saved.TransferID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, got.Status)
	assert.False(t, got.ReleaseFee.Valid)

	next := got.Clone()
	next.Status = domain.StatusInMarket
	next.ReleaseFee = decimal.NewNullDecimal(decimal.NewFromInt(500))
	require.NoError(t, s.Update(ctx, &next, domain.StatusPendingApproval))

	got, err = s.FindByID(ctx, saved.TransferID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInMarket, got.Status)
	require.True(t, got.ReleaseFee.Valid)
	assert.True(t, got.ReleaseFee.Decimal.Equal(decimal.NewFromInt(500)))

	// same expected status again loses the compare-and-set
	assert.ErrorIs(t, s.Update(ctx, &next, domain.StatusPendingApproval), domain.ErrStaleRecord)

	missing := next
	missing.TransferID = uuid.New()
	assert.ErrorIs(t, s.Update(ctx, &missing, domain.StatusInMarket), domain.ErrRecordNotFound)

	_, err = s.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestGormTransferStore_FindByField(t *testing.T) {
	f := setupGormTest(t)
	ctx := context.Background()
	s := &GormTransferStore{DB: f.db}

	dest := f.clubC.ClubID
	for _, tr := range []*domain.TransferRequest{
		{PlayerID: f.player.PlayerID, SourceClubID: f.clubA.ClubID, TransferType: domain.TransferGeneralMarket, Status: domain.StatusCancelled},
		{PlayerID: f.player.PlayerID, SourceClubID: f.clubA.ClubID, DestinationClubID: &dest, TransferType: domain.TransferDirectClub, Status: domain.StatusInMarket},
	} {
		_, err := s.Save(ctx, tr)
		require.NoError(t, err)
	}

	byPlayer, err := s.FindByField(ctx, domain.FieldPlayerID, f.player.PlayerID)
	require.NoError(t, err)
	assert.Len(t, byPlayer, 2)

	byDest, err := s.FindByField(ctx, domain.FieldDestinationClubID, f.clubC.ClubID)
	require.NoError(t, err)
	require.Len(t, byDest, 1)
	assert.Equal(t, domain.TransferDirectClub, byDest[0].TransferType)

	byStatus, err := s.FindByField(ctx, domain.FieldStatus, domain.StatusInMarket)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	_, err = s.FindByField(ctx, domain.TransferField("remarks; DROP TABLE"), "x")
	assert.Error(t, err)
}

func TestGormPlayerStore_SetPlayerClub(t *testing.T) {
	f := setupGormTest(t)
	ctx := context.Background()
	s := &GormPlayerStore{DB: f.db}

	require.NoError(t, s.SetPlayerClub(ctx, f.player.PlayerID, f.clubB.ClubID))
	assert.Equal(t, f.clubB.ClubID, f.playerClub(t))
	assert.ErrorIs(t, s.SetPlayerClub(ctx, uuid.New(), f.clubB.ClubID), domain.ErrRecordNotFound)

	players, err := s.ListPlayers(ctx, &f.clubB.ClubID)
	require.NoError(t, err)
	assert.Len(t, players, 1)
	players, err = s.ListPlayers(ctx, &f.clubA.ClubID)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestGormService_PurchaseCommitsTogether(t *testing.T) {
	f := setupGormTest(t)
	ctx := context.Background()
	v := f.listed(t, 500)

	out, err := f.svc.Purchase(ctx, clubManager(f.clubB), v.TransferID, transfers.PurchaseInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Status)
	assert.True(t, out.TransferFee.Decimal.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Borough", out.DestinationClubName)
	assert.Equal(t, f.clubB.ClubID, f.playerClub(t))

	events, err := f.svc.History(ctx, clubManager(f.clubA), v.TransferID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventPurchased, events[2].EventType)

	counts, err := (&GormTransferStore{DB: f.db}).CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"COMPLETED": 1}, counts)
}

// brokenPlayers fails every reassignment inside the transaction.
type brokenPlayers struct {
	transfers.PlayerDirectory
}

func (brokenPlayers) SetPlayerClub(ctx context.Context, playerID, clubID uuid.UUID) error {
	return errors.New("constraint violation")
}

type brokenReassignTx struct {
	inner *GormTxRunner
}

func (b brokenReassignTx) InTx(ctx context.Context, fn func(ctx context.Context, r transfers.Repos) error) error {
	return b.inner.InTx(ctx, func(ctx context.Context, r transfers.Repos) error {
		r.Players = brokenPlayers{PlayerDirectory: r.Players}
		return fn(ctx, r)
	})
}

func TestGormService_PurchaseRollsBack(t *testing.T) {
	f := setupGormTest(t)
	ctx := context.Background()
	v := f.listed(t, 500)

	f.svc.Tx = brokenReassignTx{inner: &GormTxRunner{DB: f.db}}
	_, err := f.svc.Purchase(ctx, clubManager(f.clubB), v.TransferID, transfers.PurchaseInput{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, transfers.ErrPartialFailure)

	got, err := f.svc.Get(ctx, clubManager(f.clubA), v.TransferID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInMarket, got.Status)
	assert.Nil(t, got.DestinationClubID)
	assert.False(t, got.TransferFee.Valid)
	assert.Equal(t, f.clubA.ClubID, f.playerClub(t))

	events, err := f.svc.History(ctx, clubManager(f.clubA), v.TransferID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestGormService_ConcurrentPurchase(t *testing.T) {
	f := setupGormTest(t)
	v := f.listed(t, 900)

	buyers := []domain.Club{f.clubB, f.clubC}
	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, club := range buyers {
		wg.Add(1)
		go func(i int, club domain.Club) {
			defer wg.Done()
			_, errs[i] = f.svc.Purchase(context.Background(), clubManager(club), v.TransferID, transfers.PurchaseInput{})
		}(i, club)
	}
	wg.Wait()

	winners := 0
	var winner domain.Club
	for i, err := range errs {
		if err == nil {
			winners++
			winner = buyers[i]
			continue
		}
		assert.ErrorIs(t, err, transfers.ErrInvalidState)
	}
	require.Equal(t, 1, winners)
	assert.Equal(t, winner.ClubID, f.playerClub(t))
}
