package policies

import "errors"

var (
	ErrTargetUserNotFound       = errors.New("Target user not found")
	ErrUsersCannotModifyOwnRole = errors.New("Users cannot modify their own role")
	ErrCannotRemoveYourself     = errors.New("You cannot remove your own account")
	ErrMustKeepOneAdmin         = errors.New("There must be at least one system administrator")
	ErrRoleChangeNeedsClub      = errors.New("Club owners and managers must belong to a club")
	ErrRoleChangeNeedsPlayer    = errors.New("Player accounts must be linked to a player")
	ErrInvalidTargetRole        = errors.New("Invalid role")
)
