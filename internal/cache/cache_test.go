package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Disabled(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Client{"nil": nil, "empty addr": New("", "", 0)} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			assert.NoError(t, c.Ping(ctx))
			assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

			v, err := c.Get(ctx, "k")
			assert.NoError(t, err)
			assert.Nil(t, v)

			var dst map[string]string
			assert.False(t, c.GetJSON(ctx, "k", &dst))
			assert.NoError(t, c.Delete(ctx, "k"))
			assert.NoError(t, c.Close())
		})
	}
}

func TestClient_UnreachableFailsSafe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on port 1.
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	assert.True(t, c.Enabled())
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "user:1", []byte(`{"id":"1"}`), time.Minute))

	v, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, v)

	c.SetJSON(ctx, "user:1", map[string]string{"id": "1"}, time.Minute)
	var dst map[string]string
	assert.False(t, c.GetJSON(ctx, "user:1", &dst))
}
