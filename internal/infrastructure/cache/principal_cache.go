package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

const keyPrefix = "auth:principal:"

// PrincipalCache stores resolved principals in Redis for a short TTL so the
// authentication gate does not hit Postgres on every request.
type PrincipalCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPrincipalCache(rdb *redis.Client, ttl time.Duration) *PrincipalCache {
	return &PrincipalCache{rdb: rdb, ttl: ttl}
}

// Key is built from the exact token subject. Emails are case-preserved and
// unique only as stored, so folding case here would let two identities share
// an entry.
func Key(email string) string {
	return keyPrefix + email
}

func (c *PrincipalCache) Get(ctx context.Context, email string) (*entity.Principal, bool, error) {
	var p entity.Principal
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, Key(email), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *PrincipalCache) Set(ctx context.Context, p entity.Principal) error {
	return helpers.RedisSetJSON(ctx, c.rdb, Key(p.Email), p, c.ttl)
}

func (c *PrincipalCache) Invalidate(ctx context.Context, email string) error {
	return helpers.RedisDel(ctx, c.rdb, Key(email))
}

var _ application.PrincipalCache = (*PrincipalCache)(nil)
