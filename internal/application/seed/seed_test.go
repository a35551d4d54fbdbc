package seed

import (
	"context"
	"testing"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Idempotent(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	ctx := context.Background()

	_, err = Run(ctx, db, Options{})
	assert.Error(t, err)

	res, err := Run(ctx, db, Options{AdminPassword: "adm1n!pass", Demo: true})
	require.NoError(t, err)
	assert.True(t, res.AdminCreated)
	require.Len(t, res.Clubs, 2)
	require.Len(t, res.Players, 1)
	assert.Equal(t, res.Clubs[0].ClubID, *res.Players[0].ClubID)

	res, err = Run(ctx, db, Options{AdminPassword: "adm1n!pass", Demo: true})
	require.NoError(t, err)
	assert.False(t, res.AdminCreated)

	var users, clubs, players int64
	db.Model(&domain.User{}).Count(&users)
	db.Model(&domain.Club{}).Count(&clubs)
	db.Model(&domain.Player{}).Count(&players)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(2), clubs)
	assert.Equal(t, int64(1), players)
}
