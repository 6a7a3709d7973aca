package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(Config{Addr: mr.Addr(), HealthIntervalSeconds: 60}, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_ConnectAndRoundTrip(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	c.Connect(ctx)
	require.True(t, c.Available())

	assert.True(t, c.Set(ctx, "tokens:all", []byte(`{"tokens":[]}`), 15*time.Second))

	val, ok := c.Get(ctx, "tokens:all")
	require.True(t, ok)
	assert.Equal(t, `{"tokens":[]}`, string(val))

	mr.FastForward(16 * time.Second)
	_, ok = c.Get(ctx, "tokens:all")
	assert.False(t, ok, "entry should expire with its ttl")
}

func TestClient_Miss(t *testing.T) {
	c, _ := newTestClient(t)
	c.Connect(context.Background())

	val, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.True(t, c.Available(), "a miss is not a transport failure")
}

func TestClient_KeysAndDel(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	c.Connect(ctx)

	require.NoError(t, mr.Set("tokens:all", "a"))
	require.NoError(t, mr.Set("tokens:1h", "b"))
	require.NoError(t, mr.Set("other", "c"))

	keys := c.Keys(ctx, "tokens:*")
	assert.ElementsMatch(t, []string{"tokens:all", "tokens:1h"}, keys)

	assert.Equal(t, int64(2), c.Del(ctx, keys...))
	assert.False(t, mr.Exists("tokens:all"))
	assert.True(t, mr.Exists("other"))
	assert.Equal(t, int64(0), c.Del(ctx))
}

func TestClient_DegradesWhenServerGoesAway(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	c.Connect(ctx)
	require.True(t, c.Available())

	mr.Close()

	_, ok := c.Get(ctx, "tokens:all")
	assert.False(t, ok)
	assert.False(t, c.Available())

	// Skipped while unreachable, never an error.
	assert.False(t, c.Set(ctx, "tokens:all", []byte("x"), time.Second))
	assert.Nil(t, c.Keys(ctx, "*"))
	assert.Equal(t, int64(0), c.Del(ctx, "tokens:all"))

	require.NoError(t, mr.Restart())
	c.checkHealth(ctx)
	assert.True(t, c.Available())
}

func TestClient_ConnectUnreachable(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1", DialTimeoutSeconds: 1, HealthIntervalSeconds: 60}, zap.NewNop())
	defer c.Close()

	c.Connect(context.Background())
	assert.False(t, c.Available())

	_, ok := c.Get(context.Background(), "tokens:all")
	assert.False(t, ok)
}

func TestIsTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "EOF", err: io.EOF, want: true},
		{name: "Closed", err: goredis.ErrClosed, want: true},
		{name: "NetOpError", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: true},
		{name: "Wrapped", err: fmt.Errorf("get: %w", io.ErrUnexpectedEOF), want: true},
		{name: "ServerError", err: errors.New("WRONGTYPE Operation against a key"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransportError(tt.err))
		})
	}
}
