package models

import "strings"

// Role is an account role. Admin roles are uploader and developer.
type Role string

const (
	RoleUser      Role = "user"
	RoleUploader  Role = "uploader"
	RoleDeveloper Role = "developer"
)

// capabilities lists, per role, every role requirement it satisfies.
var capabilities = map[Role][]Role{
	RoleUser:      {RoleUser},
	RoleUploader:  {RoleUploader},
	RoleDeveloper: {RoleDeveloper, RoleUploader, RoleUser},
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := capabilities[r]
	return r, ok
}

// IsAdmin reports whether r is one of the admin roles.
func (r Role) IsAdmin() bool {
	return r == RoleUploader || r == RoleDeveloper
}

// Satisfies is the single authorization check: it reports whether an
// account holding r may access something that requires the given role.
func (r Role) Satisfies(required Role) bool {
	for _, c := range capabilities[r] {
		if c == required {
			return true
		}
	}
	return false
}
