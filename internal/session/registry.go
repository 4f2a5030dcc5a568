package session

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// cleanupInterval bounds how often the registry scans for idle sessions.
	// Cleanup happens inline during Do calls, no background goroutine.
	cleanupInterval = 5 * time.Minute

	// DefaultIdleEviction is how long a session may stay inactive before it
	// is dropped.
	DefaultIdleEviction = 24 * time.Hour
)

// slot pairs a session with its serialization lock.
// refs counts in-flight Do calls so cleanup never evicts a busy slot.
type slot struct {
	mu   sync.Mutex
	refs int
	sess Session
}

// Registry holds all live sessions and enforces one in-flight transition per
// user.
type Registry struct {
	mu          sync.Mutex
	sessions    map[int64]*slot
	idleAfter   time.Duration
	now         func() time.Time
	lastCleanup time.Time
	logger      *slog.Logger
}

// NewRegistry creates a session registry.
// idleAfter <= 0 means DefaultIdleEviction; now == nil means time.Now.
func NewRegistry(idleAfter time.Duration, now func() time.Time, logger *slog.Logger) *Registry {
	if idleAfter <= 0 {
		idleAfter = DefaultIdleEviction
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions:    make(map[int64]*slot),
		idleAfter:   idleAfter,
		now:         now,
		lastCleanup: now(),
		logger:      logger,
	}
}

// Do runs fn with the user's session under the per-user lock, creating the
// session in ModeIdle if this is the user's first event. Calls for the same
// user are serialized in arrival order; calls for different users proceed in
// parallel. fn may mutate the session freely.
func (r *Registry) Do(userID int64, fn func(s *Session)) {
	now := r.now()

	r.mu.Lock()
	r.cleanupLocked(now)
	sl, ok := r.sessions[userID]
	if !ok {
		sl = &slot{sess: Session{
			UserID:         userID,
			Mode:           ModeIdle,
			CreatedAt:      now,
			LastActivityAt: now,
		}}
		r.sessions[userID] = sl
	}
	sl.refs++
	r.mu.Unlock()

	sl.mu.Lock()
	sl.sess.LastActivityAt = r.now()
	fn(&sl.sess)
	sl.mu.Unlock()

	r.mu.Lock()
	sl.refs--
	r.mu.Unlock()
}

// Snapshot returns a copy of the user's session, if one exists.
func (r *Registry) Snapshot(userID int64) (Session, bool) {
	r.mu.Lock()
	sl, ok := r.sessions[userID]
	r.mu.Unlock()
	if !ok {
		return Session{}, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.sess, true
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// cleanupLocked evicts sessions idle past the threshold.
// Caller must hold r.mu. Slots with in-flight work are skipped.
func (r *Registry) cleanupLocked(now time.Time) {
	if now.Sub(r.lastCleanup) < cleanupInterval {
		return
	}
	r.lastCleanup = now

	evicted := 0
	for id, sl := range r.sessions {
		if sl.refs > 0 {
			continue
		}
		if now.Sub(sl.sess.LastActivityAt) > r.idleAfter {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("evicted idle sessions", "count", evicted)
	}
}
