package constants

const (
	SystemAdmin = "SYSTEM_ADMIN"
	ClubOwner   = "CLUB_OWNER"
	ClubManager = "CLUB_MANAGER"
	Player      = "PLAYER"
)

// ValidRoles is the set of allowed values for Users.role.
var ValidRoles = []string{SystemAdmin, ClubOwner, ClubManager, Player}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsClubStaff reports whether role acts on behalf of a club.
func IsClubStaff(role string) bool {
	return role == ClubOwner || role == ClubManager
}
