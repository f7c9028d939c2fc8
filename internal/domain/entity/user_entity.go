package entity

import (
	"time"
)

// User is the aggregate root for the identity domain. Email doubles as the
// login name. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID            string
	Email         string
	Password      string
	Name          string
	ContactNumber string
	Position      string
	IsAdmin       bool
	Subscription  *Subscription
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Principal returns the authenticated view of u carried through a request.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
}
