package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb), mr
}

func TestClient_RoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		ID        string `json:"id"`
		SpotsLeft int    `json:"spots_left"`
	}

	require.NoError(t, c.Set(ctx, "experience:exp_1", payload{ID: "exp_1", SpotsLeft: 7}, time.Minute))

	var got payload
	found, err := c.Get(ctx, "experience:exp_1", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, got.SpotsLeft)
}

func TestClient_MissIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t)

	var got map[string]any
	found, err := c.Get(context.Background(), "experience:none", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestClient_TTLExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "experience:exp_1:stats", map[string]int{"total_attendees": 8}, 30*time.Second))
	mr.FastForward(31 * time.Second)

	var got map[string]int
	found, err := c.Get(ctx, "experience:exp_1:stats", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestClient_Delete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "experience:exp_1", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "experience:exp_1:stats", 2, time.Minute))

	assert.NoError(t, c.Delete(ctx, "experience:exp_1", "experience:exp_1:stats"))

	var got int
	found, _ := c.Get(ctx, "experience:exp_1", &got)
	assert.False(t, found)

	// deleting nothing is a no-op
	assert.NoError(t, c.Delete(ctx))
}
