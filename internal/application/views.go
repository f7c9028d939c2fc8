package application

import (
	"time"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

type SubscriptionView struct {
	Tier      entity.Tier `json:"tier"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Active    bool        `json:"active"`
}

// UserView is the outward representation of a user. It never carries the
// password hash.
type UserView struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	ContactNumber string            `json:"contact_number,omitempty"`
	Position      string            `json:"position,omitempty"`
	IsAdmin       bool              `json:"is_admin"`
	Subscription  *SubscriptionView `json:"subscription,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

func NewSubscriptionView(s *entity.Subscription, now time.Time) *SubscriptionView {
	if s == nil {
		return nil
	}
	return &SubscriptionView{Tier: s.Tier, StartDate: s.StartDate, EndDate: s.EndDate, Active: s.IsActive(now)}
}

func NewUserView(u *entity.User, now time.Time) UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		ContactNumber: u.ContactNumber,
		Position:      u.Position,
		IsAdmin:       u.IsAdmin,
		Subscription:  NewSubscriptionView(u.Subscription, now),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func tenantDoc(u *entity.User) TenantDoc {
	doc := TenantDoc{ID: u.ID, Email: u.Email, Name: u.Name}
	if u.Subscription != nil {
		doc.Tier = u.Subscription.Tier
	}
	return doc
}
