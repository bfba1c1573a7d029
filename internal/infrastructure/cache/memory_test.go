package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", []string{"SP"}, time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []string{"SP"}, v)

	c.Delete("k")
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestMemoryCache_Expires(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", 1, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_NonPositiveTTLUsesDefault(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(10*time.Millisecond, time.Minute)
	c.Set("zero", 1, 0)
	c.Set("negative", 2, -1)

	require.Eventually(t, func() bool {
		_, zero := c.Get("zero")
		_, negative := c.Get("negative")
		return !zero && !negative
	}, time.Second, 5*time.Millisecond)
}
