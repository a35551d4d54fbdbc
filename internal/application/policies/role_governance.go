package policies

import (
	"context"
	"errors"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleAssignment struct {
	ActorUserID  uuid.UUID
	TargetUserID uuid.UUID
	TargetRole   string
	// ClubID and PlayerID replace the target's links when set.
	ClubID   *uuid.UUID
	PlayerID *uuid.UUID
}

// ValidateRoleAssignment checks a role change and returns the target user with
// the new role and links applied (not saved).
func ValidateRoleAssignment(ctx context.Context, db *gorm.DB, a RoleAssignment) (*domain.User, error) {
	if !constants.IsValidRole(a.TargetRole) {
		return nil, ErrInvalidTargetRole
	}
	if a.ActorUserID == a.TargetUserID {
		return nil, ErrUsersCannotModifyOwnRole
	}
	target, err := findUser(ctx, db, a.TargetUserID)
	if err != nil {
		return nil, err
	}
	if target.Role == constants.SystemAdmin && a.TargetRole != constants.SystemAdmin {
		if err := keepOneAdmin(ctx, db); err != nil {
			return nil, err
		}
	}

	target.Role = a.TargetRole
	if a.ClubID != nil {
		target.ClubID = a.ClubID
	}
	if a.PlayerID != nil {
		target.PlayerID = a.PlayerID
	}
	switch {
	case constants.IsClubStaff(target.Role):
		if target.ClubID == nil {
			return nil, ErrRoleChangeNeedsClub
		}
		target.PlayerID = nil
	case target.Role == constants.Player:
		if target.PlayerID == nil {
			return nil, ErrRoleChangeNeedsPlayer
		}
		target.ClubID = nil
	default:
		target.ClubID, target.PlayerID = nil, nil
	}
	return target, nil
}

// ValidateRemoval returns the user the actor may remove.
func ValidateRemoval(ctx context.Context, db *gorm.DB, actorUserID, targetUserID uuid.UUID) (*domain.User, error) {
	if actorUserID == targetUserID {
		return nil, ErrCannotRemoveYourself
	}
	target, err := findUser(ctx, db, targetUserID)
	if err != nil {
		return nil, err
	}
	if target.Role == constants.SystemAdmin {
		if err := keepOneAdmin(ctx, db); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func findUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("user_id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func keepOneAdmin(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", constants.SystemAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count <= 1 {
		return ErrMustKeepOneAdmin
	}
	return nil
}
