package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	s := NewSyncer(New())

	err := s.Register(Job{Key: "", TTL: time.Minute, Every: time.Minute, Fetch: staticFetch("x")})
	assert.Error(t, err)

	err = s.Register(Job{Key: "ok", TTL: time.Minute, Every: time.Minute, Fetch: staticFetch("x")})
	assert.NoError(t, err)

	err = s.Register(Job{Key: "ok", TTL: time.Minute, Every: time.Minute, Fetch: staticFetch("x")})
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestRefreshStoresValue(t *testing.T) {
	c := New()
	s := NewSyncer(c)

	require.NoError(t, s.Register(Job{
		Key:   "dashboard",
		TTL:   5 * time.Minute,
		Every: 5 * time.Minute,
		Fetch: staticFetch("summary"),
	}))

	v, err := s.Refresh(context.Background(), "dashboard")
	require.NoError(t, err)
	assert.Equal(t, "summary", v)

	cached, ok := c.Get("dashboard")
	require.True(t, ok)
	assert.Equal(t, "summary", cached)
}

func TestFetchFailureRetainsLastGoodValue(t *testing.T) {
	c := New()
	s := NewSyncer(c)

	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("connection refused")
		}
		return "first", nil
	}

	require.NoError(t, s.Register(Job{Key: "members", TTL: 10 * time.Minute, Every: 5 * time.Minute, Fetch: fetch}))

	_, err := s.Refresh(context.Background(), "members")
	require.NoError(t, err)

	// Second refresh fails; the previously fetched value must survive.
	_, err = s.Refresh(context.Background(), "members")
	require.Error(t, err)

	v, _, err := s.Value("members")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestValuePrefersStaleOverNothing(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }
	s := NewSyncer(c)

	require.NoError(t, s.Register(Job{Key: "attendances", TTL: time.Minute, Every: time.Minute, Fetch: staticFetch(7)}))
	_, err := s.Refresh(context.Background(), "attendances")
	require.NoError(t, err)

	// Let the cache entry lapse; the last good value is still served.
	now = now.Add(2 * time.Minute)
	_, ok := c.Get("attendances")
	require.False(t, ok)

	v, _, err := s.Value("attendances")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestValueBeforeAnyFetch(t *testing.T) {
	s := NewSyncer(New())
	require.NoError(t, s.Register(Job{Key: "k", TTL: time.Minute, Every: time.Minute, Fetch: staticFetch(1)}))

	_, _, err := s.Value("k")
	assert.ErrorIs(t, err, ErrNoValueAvailable)

	_, _, err = s.Value("unregistered")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestManualRefreshResetsTTLWindow(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }
	s := NewSyncer(c)

	require.NoError(t, s.Register(Job{Key: "k", TTL: 10 * time.Minute, Every: time.Hour, Fetch: staticFetch("v")}))
	_, err := s.Refresh(context.Background(), "k")
	require.NoError(t, err)

	now = now.Add(9 * time.Minute)
	_, err = s.Refresh(context.Background(), "k")
	require.NoError(t, err)

	// 18 minutes after the first write, 9 after the forced one: still fresh.
	now = now.Add(9 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)
}

func staticFetch(v interface{}) FetchFunc {
	return func(ctx context.Context) (interface{}, error) { return v, nil }
}
