package entity

import (
	"strings"
	"time"
)

type Tier string

const (
	TierFree       Tier = "FREE"
	TierBasic      Tier = "BASIC"
	TierPremium    Tier = "PREMIUM"
	TierEnterprise Tier = "ENTERPRISE"
)

// ParseTier accepts a tier name in any letter case.
func ParseTier(s string) (Tier, bool) {
	switch t := Tier(strings.ToUpper(strings.TrimSpace(s))); t {
	case TierFree, TierBasic, TierPremium, TierEnterprise:
		return t, true
	}
	return "", false
}

// Subscription is owned 1:1 by a User and is deleted with it.
type Subscription struct {
	ID        string
	UserID    string
	Tier      Tier
	StartDate time.Time
	EndDate   time.Time
}

// NewSubscription returns a subscription for tier whose window starts at now.
func NewSubscription(userID string, tier Tier, now time.Time) *Subscription {
	s := &Subscription{UserID: userID}
	s.Reset(tier, now)
	return s
}

// IsActive is true strictly inside (StartDate, EndDate).
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.After(s.StartDate) && now.Before(s.EndDate)
}

// Reset replaces tier and window. Remaining time from the previous window is
// discarded. FREE runs for 100 years, every paid tier for one month.
func (s *Subscription) Reset(tier Tier, now time.Time) {
	s.Tier = tier
	s.StartDate = now
	if tier == TierFree {
		s.EndDate = now.AddDate(100, 0, 0)
	} else {
		s.EndDate = now.AddDate(0, 1, 0)
	}
}
