package constants

const (
	ViewDirectory = "view_directory"
	ManageClubs   = "manage_clubs"
	ManagePlayers = "manage_players"
	ManageUsers   = "manage_users"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewDirectory: {SystemAdmin, ClubOwner, ClubManager, Player},
	ManageClubs:   {SystemAdmin},
	ManagePlayers: {SystemAdmin, ClubOwner},
	ManageUsers:   {SystemAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
