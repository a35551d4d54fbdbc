package auth

import (
	"context"
	"testing"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{"username": "kim"})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_ValidManager(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":   "550e8400-e29b-41d4-a716-446655440000",
		"username":  "kim",
		"email":     "kim@example.com",
		"role":      constants.ClubManager,
		"club_id":   "660e8400-e29b-41d4-a716-446655440000",
		"player_id": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "kim", u.Username)
	require.NotNil(t, u.ClubID)
	assert.Nil(t, u.PlayerID)

	a, err := u.Actor()
	require.NoError(t, err)
	assert.Equal(t, constants.ClubManager, a.Role)
	assert.True(t, a.ManagesClub(uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")))
}

func TestSessionUser_ActorRejectsBadIDs(t *testing.T) {
	bad := "not-a-uuid"
	u := &SessionUserShape{UserID: uuid.NewString(), Role: constants.Player, PlayerID: &bad}
	_, err := u.Actor()
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestCreateUserAndLogin(t *testing.T) {
	db := setupAuthTest(t)
	ctx := context.Background()
	club := uuid.New()

	u, err := CreateUser(ctx, db, CreateUserInput{Username: "kim", Email: "Kim@Example.com", Password: "s3cret!pw", Role: constants.ClubManager, ClubID: &club})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", u.Email)
	assert.NotEqual(t, "s3cret!pw", u.PasswordHash)

	_, err = CreateUser(ctx, db, CreateUserInput{Username: "kim", Email: "other@example.com", Password: "an0ther!pw", Role: constants.SystemAdmin})
	assert.Equal(t, ErrUserExists, err)

	got, err := LoginUser(db, LoginInput{Login: "kim", Password: "s3cret!pw"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)
	got, err = LoginUser(db, LoginInput{Login: "kim@example.com", Password: "s3cret!pw"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	_, err = LoginUser(db, LoginInput{Login: "kim", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)
	_, err = LoginUser(db, LoginInput{Login: "nobody", Password: "x"})
	assert.Equal(t, ErrUnknownUser, err)
	_, err = LoginUser(db, LoginInput{})
	assert.Equal(t, ErrCredentialsRequired, err)
}

func TestCreateUser_RoleRules(t *testing.T) {
	db := setupAuthTest(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, db, CreateUserInput{Username: "a", Password: "p", Role: "viewer"})
	assert.Equal(t, ErrInvalidRole, err)
	_, err = CreateUser(ctx, db, CreateUserInput{Username: "a", Password: "p", Role: constants.ClubOwner})
	assert.Equal(t, ErrRoleNeedsClub, err)
	_, err = CreateUser(ctx, db, CreateUserInput{Username: "a", Password: "p", Role: constants.Player})
	assert.Equal(t, ErrRoleNeedsPlayer, err)
}

func TestCreateUser_FieldRules(t *testing.T) {
	db := setupAuthTest(t)
	ctx := context.Background()
	in := CreateUserInput{Username: "kim", Email: "kim@example", Password: "s3cret!pw", Role: constants.SystemAdmin}

	_, err := CreateUser(ctx, db, CreateUserInput{Username: "kim", Password: "s3cret!pw", Role: constants.SystemAdmin})
	assert.Equal(t, ErrEmailRequired, err)
	_, err = CreateUser(ctx, db, in)
	assert.Equal(t, ErrInvalidEmail, err)

	in.Email = "kim@example.com"
	in.Username = "k"
	_, err = CreateUser(ctx, db, in)
	assert.Equal(t, ErrInvalidUsername, err)

	in.Username = "kim"
	in.Password = "password"
	_, err = CreateUser(ctx, db, in)
	assert.Equal(t, ErrWeakPassword, err)
}
