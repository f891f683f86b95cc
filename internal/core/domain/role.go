package domain

const (
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)

// FixedRoles lists the roles the application needs before serving requests.
var FixedRoles = []string{RoleNormal, RoleAdmin}

// IsFixedRole reports whether name is one of FixedRoles.
func IsFixedRole(name string) bool {
	for _, r := range FixedRoles {
		if r == name {
			return true
		}
	}
	return false
}

// RoleForOrdinal picks the self-registration role from a user's creation
// ordinal. Only the very first account becomes an admin.
func RoleForOrdinal(ordinal int64) string {
	if ordinal == 1 {
		return RoleAdmin
	}
	return RoleNormal
}

// RoleAssigner picks the role a new user joins, given its creation ordinal.
// Stores call it inside the same atomic unit that inserts the user.
type RoleAssigner func(ordinal int64) string

// AssignRole returns a RoleAssigner that always picks role.
func AssignRole(role string) RoleAssigner {
	return func(int64) string { return role }
}
