package auth

import "errors"

var (
	ErrCredentialsRequired = errors.New("Username and password are required")
	ErrUnknownUser         = errors.New("Invalid username or email")
	ErrIncorrectPassword   = errors.New("Incorrect Password")
	ErrNotAuthenticated    = errors.New("Not authenticated")
	ErrInvalidRole         = errors.New("Invalid role")
	ErrRoleNeedsClub       = errors.New("Club owners and managers must belong to a club")
	ErrRoleNeedsPlayer     = errors.New("Player accounts must be linked to a player")
	ErrUserExists          = errors.New("Username or email already in use")
	ErrEmailRequired       = errors.New("Email is required")
	ErrInvalidEmail        = errors.New("Invalid email format")
	ErrInvalidUsername     = errors.New("Username must be 3-32 letters, digits, dots, underscores or hyphens")
	ErrWeakPassword        = errors.New("Password must be at least 8 characters and include a letter, a number and a special character")
)
