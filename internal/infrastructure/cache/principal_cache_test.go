package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKeyKeepsExactSubject(t *testing.T) {
	assert.Equal(t, "auth:principal:a@x.com", Key("a@x.com"))
	assert.NotEqual(t, Key("admin@todo.local"), Key("ADMIN@todo.local"))
	assert.NotEqual(t, Key("a@x.com"), Key(" a@x.com"))
}

func TestGetSurfacesConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	c := NewPrincipalCache(rdb, time.Minute)

	p, ok, err := c.Get(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, p)
}
