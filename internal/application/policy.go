package application

import (
	"time"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(p *entity.Principal) error {
	if p == nil {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin allows only principals holding the ADMIN role.
func RequireAdmin(p *entity.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.HasRole(entity.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// RequireOwner allows the principal whose id matches ownerID. Callers must
// have checked that the resource exists.
func RequireOwner(p *entity.Principal, ownerID string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.ID != ownerID {
		return ErrForbidden
	}
	return nil
}

// RequireActiveSubscription gates actions behind a subscription that is
// active at now.
func RequireActiveSubscription(s *entity.Subscription, now time.Time) error {
	if !s.IsActive(now) {
		return ErrSubscriptionInactive
	}
	return nil
}
