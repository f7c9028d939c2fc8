package entity

// Role is an authorization role derived from a User; it is not stored.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Principal is the identity attached to an authenticated request.
type Principal struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Roles derives the role set on demand. Every principal is a USER,
// admins additionally hold ADMIN.
func (p Principal) Roles() []Role {
	if p.IsAdmin {
		return []Role{RoleUser, RoleAdmin}
	}
	return []Role{RoleUser}
}

// HasRole reports whether r is part of the derived role set.
func (p Principal) HasRole(r Role) bool {
	for _, have := range p.Roles() {
		if have == r {
			return true
		}
	}
	return false
}
