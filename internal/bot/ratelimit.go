package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterStaleThreshold  = 10 * time.Minute
)

// userLimiter implements per-user rate limiting using golang.org/x/time/rate.
// Cleanup of stale entries happens inline during allow() calls.
type userLimiter struct {
	mu          sync.Mutex
	users       map[int64]*userBucket
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
}

// userBucket holds a rate limiter and last-seen time for a single user.
type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newUserLimiter creates a limiter.
// r: tokens refilled per second. burst: maximum tokens (and initial allowance).
func newUserLimiter(r float64, burst int) *userLimiter {
	return &userLimiter{
		users:       make(map[int64]*userBucket),
		limit:       rate.Limit(r),
		burst:       burst,
		lastCleanup: time.Now(),
	}
}

// allow checks if an event from the given user is allowed.
// Returns false if the user has exhausted their tokens.
func (ul *userLimiter) allow(userID int64) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	now := time.Now()

	// Periodic cleanup of stale entries
	if now.Sub(ul.lastCleanup) > limiterCleanupInterval {
		for id, b := range ul.users {
			if now.Sub(b.lastSeen) > limiterStaleThreshold {
				delete(ul.users, id)
			}
		}
		ul.lastCleanup = now
	}

	b, exists := ul.users[userID]
	if !exists {
		limiter := rate.NewLimiter(ul.limit, ul.burst)
		ul.users[userID] = &userBucket{
			limiter:  limiter,
			lastSeen: now,
		}
		limiter.Allow()
		return true
	}

	b.lastSeen = now
	return b.limiter.Allow()
}
