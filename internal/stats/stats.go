// Package stats tracks usage counters for the bot.
//
// The recorder is fire-and-forget: Record never blocks the conversation
// pipeline. Events go through a buffered channel into a single applier
// goroutine; when the buffer is full the event is dropped and counted.
// Counters are periodically snapshotted to a JSON file and restored on
// startup. Unique-user tracking is per process lifetime: after a restart a
// returning user counts once more.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// EventKind identifies a countable event.
type EventKind int

const (
	// UserSeen marks activity from a user ID.
	UserSeen EventKind = iota
	// Generated marks a successfully generated QR image.
	Generated
	// Scanned marks a successfully decoded QR image.
	Scanned
)

// Event is one countable occurrence. UserID is meaningful only for UserSeen.
type Event struct {
	Kind   EventKind
	UserID int64
}

// Counters is the persisted shape of the usage counters.
type Counters struct {
	UsersSeen uint64 `json:"users_seen"`
	Generated uint64 `json:"generated"`
	Scanned   uint64 `json:"scanned"`
}

// snapshotInterval is how often a dirty counter set is written out.
const snapshotInterval = time.Minute

// recorderBuffer is the Record channel capacity.
const recorderBuffer = 256

// Recorder applies events to counters and persists them.
type Recorder struct {
	path   string
	logger *slog.Logger
	events chan Event

	mu       sync.Mutex
	counters Counters
	seen     map[int64]struct{}
	dirty    bool
	dropped  uint64
}

// New creates a Recorder backed by the JSON file at path.
// An empty path disables persistence. Existing counters are restored;
// a missing file is not an error.
func New(path string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		path:   path,
		logger: logger,
		events: make(chan Event, recorderBuffer),
		seen:   make(map[int64]struct{}),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// First run.
		case err != nil:
			return nil, fmt.Errorf("reading stats file: %w", err)
		default:
			if err := json.Unmarshal(data, &r.counters); err != nil {
				return nil, fmt.Errorf("parsing stats file: %w", err)
			}
		}
	}
	return r, nil
}

// Record submits an event. Never blocks: if the buffer is full the event is
// dropped and the drop is counted for the next log line.
func (r *Recorder) Record(ev Event) {
	select {
	case r.events <- ev:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Snapshot returns the current counter values.
func (r *Recorder) Snapshot() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters
}

// Run applies events and persists dirty counters until ctx is cancelled,
// then writes a final snapshot.
func (r *Recorder) Run(ctx context.Context) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.drain()
			r.persist()
			return
		case ev := <-r.events:
			r.apply(ev)
		case <-ticker.C:
			r.persist()
		}
	}
}

// drain applies whatever is still buffered at shutdown.
func (r *Recorder) drain() {
	for {
		select {
		case ev := <-r.events:
			r.apply(ev)
		default:
			return
		}
	}
}

func (r *Recorder) apply(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case UserSeen:
		if _, ok := r.seen[ev.UserID]; ok {
			return
		}
		r.seen[ev.UserID] = struct{}{}
		r.counters.UsersSeen++
	case Generated:
		r.counters.Generated++
	case Scanned:
		r.counters.Scanned++
	default:
		return
	}
	r.dirty = true
}

// persist writes the counters to disk if anything changed.
// Failures are logged, never escalated: stats must not break the bot.
func (r *Recorder) persist() {
	r.mu.Lock()
	if !r.dirty || r.path == "" {
		dropped := r.dropped
		r.dropped = 0
		r.mu.Unlock()
		if dropped > 0 {
			r.logger.Warn("dropped stats events", "count", dropped)
		}
		return
	}
	counters := r.counters
	dropped := r.dropped
	r.dirty = false
	r.dropped = 0
	r.mu.Unlock()

	if dropped > 0 {
		r.logger.Warn("dropped stats events", "count", dropped)
	}

	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		r.logger.Warn("encoding stats snapshot failed", "error", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		r.logger.Warn("writing stats snapshot failed", "path", r.path, "error", err)
	}
}
