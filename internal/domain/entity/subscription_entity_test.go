package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

func TestSubscriptionIsActive(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s := &entity.Subscription{Tier: entity.TierPremium, StartDate: start, EndDate: start.AddDate(0, 1, 0)}

	assert.False(t, s.IsActive(start), "not active at the exact start")
	assert.False(t, s.IsActive(s.EndDate), "not active at the exact end")
	assert.True(t, s.IsActive(start.Add(time.Nanosecond)))
	assert.True(t, s.IsActive(s.EndDate.Add(-time.Nanosecond)))
	assert.False(t, s.IsActive(start.Add(-time.Hour)))
	assert.False(t, s.IsActive(s.EndDate.Add(time.Hour)))

	var missing *entity.Subscription
	assert.False(t, missing.IsActive(start))
}

func TestSubscriptionReset(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := entity.NewSubscription("u1", entity.TierFree, first)
	assert.Equal(t, entity.TierFree, s.Tier)
	assert.Equal(t, first.AddDate(100, 0, 0), s.EndDate)

	upgradeAt := first.Add(10 * 24 * time.Hour)
	s.Reset(entity.TierPremium, upgradeAt)
	assert.Equal(t, entity.TierPremium, s.Tier)
	assert.Equal(t, upgradeAt, s.StartDate)
	assert.Equal(t, upgradeAt.AddDate(0, 1, 0), s.EndDate)

	// A second paid reset discards the remaining window instead of extending it.
	again := upgradeAt.Add(5 * 24 * time.Hour)
	s.Reset(entity.TierEnterprise, again)
	assert.Equal(t, again.AddDate(0, 1, 0), s.EndDate)

	back := again.Add(time.Hour)
	s.Reset(entity.TierFree, back)
	assert.Equal(t, back, s.StartDate)
	assert.Equal(t, back.AddDate(100, 0, 0), s.EndDate)
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	tier, ok := entity.ParseTier(" premium ")
	require.True(t, ok)
	assert.Equal(t, entity.TierPremium, tier)

	_, ok = entity.ParseTier("GOLD")
	assert.False(t, ok)
	_, ok = entity.ParseTier("")
	assert.False(t, ok)
}

func TestPrincipalRoles(t *testing.T) {
	t.Parallel()

	user := entity.Principal{ID: "1", Email: "a@x.com"}
	assert.Equal(t, []entity.Role{entity.RoleUser}, user.Roles())
	assert.False(t, user.HasRole(entity.RoleAdmin))

	admin := entity.Principal{ID: "2", Email: "root@x.com", IsAdmin: true}
	assert.ElementsMatch(t, []entity.Role{entity.RoleUser, entity.RoleAdmin}, admin.Roles())
	assert.True(t, admin.HasRole(entity.RoleAdmin))
}
