package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j31732830-dot/Qr/internal/log"
)

func TestRegistry_LazyCreateIdle(t *testing.T) {
	t.Parallel()
	r := NewRegistry(0, nil, log.NewNop())

	_, ok := r.Snapshot(42)
	assert.False(t, ok)

	r.Do(42, func(s *Session) {
		assert.Equal(t, int64(42), s.UserID)
		assert.Equal(t, ModeIdle, s.Mode)
	})

	sess, ok := r.Snapshot(42)
	require.True(t, ok)
	assert.Equal(t, ModeIdle, sess.Mode)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_MutationsPersist(t *testing.T) {
	t.Parallel()
	r := NewRegistry(0, nil, log.NewNop())

	r.Do(7, func(s *Session) { s.Mode = ModeAwaitingText })

	sess, ok := r.Snapshot(7)
	require.True(t, ok)
	assert.Equal(t, ModeAwaitingText, sess.Mode)
}

func TestRegistry_SerializesPerUser(t *testing.T) {
	t.Parallel()
	r := NewRegistry(0, nil, log.NewNop())

	// Counter increments are not atomic; serialization is what keeps the
	// final value exact.
	const calls = 200
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Do(1, func(s *Session) { counter++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, calls, counter)
}

func TestRegistry_IndependentUsers(t *testing.T) {
	t.Parallel()
	r := NewRegistry(0, nil, log.NewNop())

	r.Do(1, func(s *Session) { s.Mode = ModeAwaitingText })
	r.Do(2, func(s *Session) { s.Mode = ModeAwaitingImage })

	s1, _ := r.Snapshot(1)
	s2, _ := r.Snapshot(2)
	assert.Equal(t, ModeAwaitingText, s1.Mode)
	assert.Equal(t, ModeAwaitingImage, s2.Mode)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	t.Parallel()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(d)
	}

	r := NewRegistry(time.Hour, now, log.NewNop())

	r.Do(1, func(s *Session) { s.Mode = ModeAwaitingText })
	require.Equal(t, 1, r.Len())

	// Past the idle threshold and past the cleanup interval: the next Do
	// discards the stale session.
	advance(2 * time.Hour)
	r.Do(2, func(s *Session) {})

	_, ok := r.Snapshot(1)
	assert.False(t, ok)
	_, ok = r.Snapshot(2)
	assert.True(t, ok)
}

func TestRegistry_RecentSessionsSurviveCleanup(t *testing.T) {
	t.Parallel()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(d)
	}

	r := NewRegistry(24*time.Hour, now, log.NewNop())

	r.Do(1, func(s *Session) { s.Mode = ModeAwaitingImage })

	advance(6 * time.Minute)
	r.Do(2, func(s *Session) {})

	sess, ok := r.Snapshot(1)
	require.True(t, ok)
	assert.Equal(t, ModeAwaitingImage, sess.Mode)
}
