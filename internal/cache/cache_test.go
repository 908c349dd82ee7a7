package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("test")

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Close())
}

func TestMemoryClientExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	require.NoError(t, c.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewDefaultsToMemory(t *testing.T) {
	c, err := New(context.Background(), Config{Driver: "unknown"})
	require.NoError(t, err)
	require.IsType(t, &memoryClient{}, c)
}

func TestPrefixed(t *testing.T) {
	require.Equal(t, "k", prefixed("", "k"))
	require.Equal(t, "wat:k", prefixed("wat", "k"))
}
