package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	// DefaultMaxPayloadBytes bounds a single artifact payload.
	DefaultMaxPayloadBytes int64 = 20 * 1024 * 1024

	// DefaultMaxSpoolBytes bounds the live payload total across all
	// artifacts.
	DefaultMaxSpoolBytes int64 = 256 * 1024 * 1024

	// lockFileName is the flock file guarding exclusive spool ownership.
	lockFileName = ".lock"
)

// Config configures a Store.
type Config struct {
	// Dir is the spool directory. Created if missing.
	Dir string

	// MaxPayloadBytes bounds a single payload. Zero means
	// DefaultMaxPayloadBytes.
	MaxPayloadBytes int64

	// MaxSpoolBytes bounds the sum of live payload sizes. Zero means
	// DefaultMaxSpoolBytes.
	MaxSpoolBytes int64

	// Now supplies the clock. Zero means time.Now. Tests inject a fake
	// clock here so expiry is observable without wall-clock sleeps.
	Now func() time.Time
}

// entry is the index record for one live artifact.
type entry struct {
	info Info
	path string
}

// Store manages ephemeral file-backed artifacts with TTL-based reclamation.
//
// The index is the only structure mutated by concurrent actors (pipelines,
// sweep, shutdown flush); all mutations go through Create, Delete, Sweep and
// FlushAll.
type Store struct {
	dir        string
	maxPayload int64
	maxSpool   int64
	now        func() time.Time
	logger     *slog.Logger
	lock       *flock.Flock

	mu     sync.Mutex
	index  map[uuid.UUID]entry
	total  int64
	closed bool
}

// New opens the spool directory and returns a Store ready for use.
// Returns ErrSpoolLocked if another process already owns the directory.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, errors.New("spool directory is required")
	}
	if cfg.MaxPayloadBytes == 0 {
		cfg.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if cfg.MaxSpoolBytes == 0 {
		cfg.MaxSpoolBytes = DefaultMaxSpoolBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking spool directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSpoolLocked, cfg.Dir)
	}

	return &Store{
		dir:        cfg.Dir,
		maxPayload: cfg.MaxPayloadBytes,
		maxSpool:   cfg.MaxSpoolBytes,
		now:        cfg.Now,
		logger:     logger,
		lock:       lock,
		index:      make(map[uuid.UUID]entry),
	}, nil
}

// Create persists payload as a new artifact and schedules its expiry at
// now + ttl. A failed create leaves no partial artifact behind.
func (s *Store) Create(kind Kind, payload []byte, ttl time.Duration) (uuid.UUID, error) {
	if !validKind(kind) {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if len(payload) == 0 {
		return uuid.Nil, ErrEmptyPayload
	}
	size := int64(len(payload))
	if size > s.maxPayload {
		return uuid.Nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrPayloadTooLarge, size, s.maxPayload)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return uuid.Nil, ErrClosed
	}
	if s.total+size > s.maxSpool {
		s.mu.Unlock()
		return uuid.Nil, fmt.Errorf("%w: %d live bytes (limit %d)", ErrSpoolFull, s.total, s.maxSpool)
	}
	// Reserve the space before the write so concurrent creates cannot
	// overshoot the spool limit.
	s.total += size
	s.mu.Unlock()

	id := uuid.New()
	now := s.now()
	e := entry{
		info: Info{
			ID:        id,
			Kind:      kind,
			Size:      size,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		},
		path: filepath.Join(s.dir, fmt.Sprintf("%s_%s", kind.filePrefix(), id)),
	}

	if err := os.WriteFile(e.path, payload, 0o600); err != nil {
		s.mu.Lock()
		s.total -= size
		s.mu.Unlock()
		// Best effort: a partially written file must not survive.
		_ = os.Remove(e.path)
		return uuid.Nil, fmt.Errorf("writing artifact %s: %w", id, err)
	}

	s.mu.Lock()
	if s.closed {
		s.total -= size
		s.mu.Unlock()
		_ = os.Remove(e.path)
		return uuid.Nil, ErrClosed
	}
	s.index[id] = e
	s.mu.Unlock()

	s.logger.Debug("created artifact",
		"artifact_id", id,
		"kind", kind,
		"size", size,
		"expires_at", e.info.ExpiresAt)
	return id, nil
}

// Delete removes the artifact and releases its backing file.
//
// Delete is idempotent: deleting an unknown or already-deleted artifact is a
// no-op, never an error. Concurrent callers racing on the same artifact all
// return success; exactly one removes the file.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.index[id]
	if ok {
		delete(s.index, id)
		s.total -= e.info.Size
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		// The index entry is gone either way; the stray file is caught by
		// the next FlushAll.
		return fmt.Errorf("removing artifact %s: %w", id, err)
	}

	s.logger.Debug("deleted artifact", "artifact_id", id, "kind", e.info.Kind)
	return nil
}

// Sweep deletes every live artifact whose deadline is at or before now.
// Returns the number of artifacts deleted.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var expired []uuid.UUID
	for id, e := range s.index {
		if !e.info.ExpiresAt.After(now) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	deleted := 0
	for _, id := range expired {
		if err := s.Delete(id); err != nil {
			s.logger.Warn("sweep delete failed", "artifact_id", id, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("sweep reclaimed artifacts", "deleted", deleted)
	}
	return deleted
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// FlushAll deletes every artifact regardless of expiry, then removes any
// stray files left in the spool directory from a prior run. Best effort:
// individual failures are logged, the first error is returned.
func (s *Store) FlushAll() error {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.index))
	for id := range s.index {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := s.Delete(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("reading spool directory: %w", err)
		}
		return firstErr
	}
	stray := 0
	for _, de := range entries {
		if de.IsDir() || de.Name() == lockFileName {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			s.logger.Warn("removing stray spool file failed", "name", de.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stray++
	}
	if stray > 0 {
		s.logger.Info("removed stray spool files", "count", stray)
	}
	return firstErr
}

// Count returns the number of live artifacts.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Stat returns the Info for a live artifact.
func (s *Store) Stat(id uuid.UUID) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.index[id]
	return e.info, ok
}

// Close marks the store closed and releases the spool lock.
// It does not delete artifacts; call FlushAll first for a clean shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("unlocking spool directory: %w", err)
	}
	return nil
}
