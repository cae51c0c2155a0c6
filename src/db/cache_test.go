package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicepay-server/src/models"
)

func TestUserCache(t *testing.T) {
	cache, err := NewUserCache(time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	user := models.PublicUser{ID: uuid.New(), Username: "ravi", Email: "ravi@example.com", Balance: 10000}
	cache.Set(user)
	cache.Wait()

	got, ok := cache.GetByEmail("ravi@example.com")
	require.True(t, ok)
	assert.Equal(t, user, got)

	got, ok = cache.GetByID(user.ID)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = cache.GetByEmail("nobody@example.com")
	assert.False(t, ok)

	cache.Clear()
	_, ok = cache.GetByID(user.ID)
	assert.False(t, ok)
}
