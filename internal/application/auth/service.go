package auth

import (
	"context"
	"errors"
	"strings"

	"clubhub-backend/internal/application/transfers"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/pkg/constants"
	"clubhub-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body. Login accepts a username or an email.
type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	ClubID   *string `json:"club_id"`
	PlayerID *string `json:"player_id"`
}

// UserFinder abstracts user lookup by credentials (GORM in production, fakes in tests).
type UserFinder interface {
	FindByLoginAndPassword(login, password string) (*domain.User, error)
}

type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByLoginAndPassword(login, password string) (*domain.User, error) {
	return LoginUser(g.DB, LoginInput{Login: login, Password: password})
}

// LoginUser finds the user by username or email and verifies the password.
func LoginUser(db *gorm.DB, input LoginInput) (*domain.User, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.User
	if err := db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrUnknownUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	ClubID   *uuid.UUID
	PlayerID *uuid.UUID
}

// CreateUser hashes the password and stores a new account. Club staff need a
// club and player accounts need a player.
func CreateUser(ctx context.Context, db *gorm.DB, in CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if !constants.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if constants.IsClubStaff(in.Role) && in.ClubID == nil {
		return nil, ErrRoleNeedsClub
	}
	if in.Role == constants.Player && in.PlayerID == nil {
		return nil, ErrRoleNeedsPlayer
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidUsername(strings.TrimSpace(in.Username)) {
		return nil, ErrInvalidUsername
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	var count int64
	// removed accounts keep their username and email reserved
	if err := db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("username = ? OR email = ?", strings.TrimSpace(in.Username), email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		ClubID:       in.ClubID,
		PlayerID:     in.PlayerID,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:   userID,
		Username: str(m["username"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
		ClubID:   optStr(m["club_id"]),
		PlayerID: optStr(m["player_id"]),
	}, nil
}

// Actor converts the session user into the identity the transfer engine expects.
func (u *SessionUserShape) Actor() (transfers.Actor, error) {
	id, err := uuid.Parse(u.UserID)
	if err != nil {
		return transfers.Actor{}, ErrNotAuthenticated
	}
	a := transfers.Actor{UserID: id, Role: u.Role}
	if a.ClubID, err = optUUID(u.ClubID); err != nil {
		return transfers.Actor{}, ErrNotAuthenticated
	}
	if a.PlayerID, err = optUUID(u.PlayerID); err != nil {
		return transfers.Actor{}, ErrNotAuthenticated
	}
	return a, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func optStr(v interface{}) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}

func optUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
