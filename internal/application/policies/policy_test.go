package policies

import (
	"context"
	"testing"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/middleware"
	"clubhub-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPolicyDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func addUser(t *testing.T, db *gorm.DB, username, role string, clubID, playerID *uuid.UUID) domain.User {
	u := domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role, ClubID: clubID, PlayerID: playerID}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestValidateRoleAssignment(t *testing.T) {
	db := setupPolicyDB(t)
	ctx := context.Background()
	admin := addUser(t, db, "root", constants.SystemAdmin, nil, nil)
	club := uuid.New()
	manager := addUser(t, db, "kim", constants.ClubManager, &club, nil)

	_, err := ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: manager.UserID, TargetRole: "coach"})
	assert.Equal(t, ErrInvalidTargetRole, err)

	_, err = ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: uuid.New(), TargetRole: constants.ClubOwner})
	assert.Equal(t, ErrTargetUserNotFound, err)

	_, err = ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: admin.UserID, TargetRole: constants.ClubOwner})
	assert.Equal(t, ErrUsersCannotModifyOwnRole, err)

	_, err = ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: manager.UserID, TargetRole: constants.Player})
	assert.Equal(t, ErrRoleChangeNeedsPlayer, err)

	got, err := ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: manager.UserID, TargetRole: constants.ClubOwner})
	require.NoError(t, err)
	assert.Equal(t, constants.ClubOwner, got.Role)
	assert.Equal(t, club, *got.ClubID)

	got, err = ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: admin.UserID, TargetUserID: manager.UserID, TargetRole: constants.SystemAdmin})
	require.NoError(t, err)
	assert.Nil(t, got.ClubID)
}

func TestLastAdminIsProtected(t *testing.T) {
	db := setupPolicyDB(t)
	ctx := context.Background()
	first := addUser(t, db, "root", constants.SystemAdmin, nil, nil)
	second := addUser(t, db, "ops", constants.SystemAdmin, nil, nil)

	_, err := ValidateRemoval(ctx, db, first.UserID, first.UserID)
	assert.Equal(t, ErrCannotRemoveYourself, err)

	target, err := ValidateRemoval(ctx, db, first.UserID, second.UserID)
	require.NoError(t, err)
	require.NoError(t, db.Delete(target).Error)

	club := uuid.New()
	_, err = ValidateRoleAssignment(ctx, db, RoleAssignment{ActorUserID: second.UserID, TargetUserID: first.UserID, TargetRole: constants.ClubOwner, ClubID: &club})
	assert.Equal(t, ErrMustKeepOneAdmin, err)
}

func TestDestroyUserSessions(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	require.NoError(t, rdb.SAdd(ctx, UserSessionsPrefix+"u1", "s1", "s2").Err())
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+"s1", "{}", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+"s2", "{}", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+"other", "{}", 0).Err())

	DestroyUserSessions(ctx, rdb, "u1")

	n, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+"s1", middleware.SessionRedisPrefix+"s2", UserSessionsPrefix+"u1").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	n, _ = rdb.Exists(ctx, middleware.SessionRedisPrefix+"other").Result()
	assert.Equal(t, int64(1), n)
}
