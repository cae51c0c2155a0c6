package db

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"voicepay-server/src/models"
)

// UserCache keeps sanitized profiles keyed by email and by id. Users are never
// updated after registration, so entries only expire through the TTL.
type UserCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewUserCache(ttl time.Duration) (*UserCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &UserCache{cache: cache, ttl: ttl}, nil
}

func emailKey(email string) string { return "user:email:" + email }

func idKey(id uuid.UUID) string { return "user:id:" + id.String() }

func (c *UserCache) Set(u models.PublicUser) {
	c.cache.SetWithTTL(emailKey(u.Email), u, 1, c.ttl)
	c.cache.SetWithTTL(idKey(u.ID), u, 1, c.ttl)
}

func (c *UserCache) GetByEmail(email string) (models.PublicUser, bool) {
	return c.get(emailKey(email))
}

func (c *UserCache) GetByID(id uuid.UUID) (models.PublicUser, bool) {
	return c.get(idKey(id))
}

func (c *UserCache) get(key string) (models.PublicUser, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return models.PublicUser{}, false
	}
	u, ok := v.(models.PublicUser)
	return u, ok
}

// Wait blocks until buffered writes are applied.
func (c *UserCache) Wait() {
	c.cache.Wait()
}

func (c *UserCache) Clear() {
	c.cache.Clear()
}

func (c *UserCache) Close() {
	c.cache.Close()
}
