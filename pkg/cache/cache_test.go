package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type session struct {
		UserID uint `json:"user_id"`
	}
	require.NoError(t, m.Set(ctx, "token:abc", session{UserID: 4}, time.Minute))

	var got session
	assert.True(t, m.Get(ctx, "token:abc", &got))
	assert.Equal(t, uint(4), got.UserID)

	require.NoError(t, m.Del(ctx, "token:abc"))
	assert.False(t, m.Get(ctx, "token:abc", &got))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Now()
	m.now = func() time.Time { return base }

	require.NoError(t, m.Set(ctx, "k", 1, time.Second))
	m.now = func() time.Time { return base.Add(2 * time.Second) }

	var n int
	assert.False(t, m.Get(ctx, "k", &n))
}
