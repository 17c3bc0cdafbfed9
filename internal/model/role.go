package model

// Role is the sole authorization signal carried by a Profile.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleFaculty, RoleStudent}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFaculty || r == RoleStudent
}

// IsAdmin reports whether r grants access to the management panels.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
