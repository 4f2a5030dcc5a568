package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/j31732830-dot/Qr/internal/i18n"
	"github.com/j31732830-dot/Qr/internal/session"
	"github.com/j31732830-dot/Qr/internal/stats"
)

// Codec is the text↔image conversion capability.
// Decode returns qr.ErrNotFound when the image holds no QR code.
type Codec interface {
	Encode(ctx context.Context, text string) ([]byte, error)
	Decode(ctx context.Context, data []byte) (string, error)
}

// Transport delivers replies to a user. A non-nil error means the reply did
// not reach the user; the Manager uses this only to decide whether an
// artifact can be deleted eagerly.
type Transport interface {
	Deliver(ctx context.Context, userID int64, reply Reply) error
}

// Recorder emits usage events. Implementations must never block.
type Recorder interface {
	Record(ev stats.Event)
}

// Config holds the Manager's tunables.
type Config struct {
	MaxTextLen        int
	PreviewLen        int
	DocumentThreshold int

	ArtifactTTL     time.Duration
	CodecTimeout    time.Duration
	DeliveryTimeout time.Duration

	// RetainUploads keeps uploaded images until their TTL instead of
	// deleting them right after the decode attempt.
	RetainUploads bool

	// Per-user token bucket.
	RateLimit float64
	RateBurst int
}

// Manager is the conversation state machine.
type Manager struct {
	cfg       Config
	sessions  *session.Registry
	store     ArtifactStore
	codec     Codec
	transport Transport
	recorder  Recorder
	limiter   *userLimiter
	logger    *slog.Logger
}

// New creates a Manager.
func New(cfg Config, sessions *session.Registry, store ArtifactStore, codec Codec,
	transport Transport, recorder Recorder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:       cfg,
		sessions:  sessions,
		store:     store,
		codec:     codec,
		transport: transport,
		recorder:  recorder,
		limiter:   newUserLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:    logger,
	}
}

// Handle processes one inbound event to completion: mode check, transition,
// pipeline, delivery. Events for the same user are serialized; Handle may be
// called concurrently for different users.
func (m *Manager) Handle(ctx context.Context, ev Event) {
	m.recorder.Record(stats.Event{Kind: stats.UserSeen, UserID: ev.UserID})

	if !m.limiter.allow(ev.UserID) {
		// Still user activity: keep the session off the idle eviction path.
		m.sessions.Do(ev.UserID, func(*session.Session) {})
		m.send(ctx, ev.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("rate_limited")})
		return
	}

	m.sessions.Do(ev.UserID, func(s *session.Session) {
		m.dispatch(ctx, s, ev)
	})
}

// dispatch applies the transition table for the event under the user's lock.
func (m *Manager) dispatch(ctx context.Context, s *session.Session, ev Event) {
	switch ev.Kind {
	case EventCommand:
		m.handleCommand(ctx, s, ev.Command)

	case EventCancel:
		switch s.Mode {
		case session.ModeAwaitingText, session.ModeAwaitingImage:
			s.Mode = session.ModeIdle
			m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("cancel.ack"), Keyboard: KeyboardMain})
		default:
			m.guide(ctx, s)
		}

	case EventText:
		if s.Mode != session.ModeAwaitingText {
			m.guide(ctx, s)
			return
		}
		m.encodePipeline(ctx, s, ev.Text)

	case EventImage:
		if s.Mode != session.ModeAwaitingImage {
			m.guide(ctx, s)
			return
		}
		m.decodePipeline(ctx, s, ev.Image)

	default:
		m.guide(ctx, s)
	}
}

// handleCommand runs command events. Informational commands answer from any
// mode without changing it; mode-entering commands require Idle.
func (m *Manager) handleCommand(ctx context.Context, s *session.Session, cmd Command) {
	switch cmd {
	case CommandTextToQR:
		if s.Mode != session.ModeIdle {
			m.guide(ctx, s)
			return
		}
		s.Mode = session.ModeAwaitingText
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.Tf("prompt.text", m.cfg.MaxTextLen), Keyboard: KeyboardCancel})

	case CommandQRToText:
		if s.Mode != session.ModeIdle {
			m.guide(ctx, s)
			return
		}
		s.Mode = session.ModeAwaitingImage
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("prompt.image"), Keyboard: KeyboardCancel})

	case CommandStart:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("welcome"), Keyboard: KeyboardMain})

	case CommandHelp:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.Tf("help", m.cfg.MaxTextLen)})

	case CommandInfo:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.Tf("info", m.cfg.ArtifactTTL)})

	case CommandStats:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage,
			Text: i18n.Tf("stats", s.UserID, m.store.Count(), m.cfg.ArtifactTTL)})

	default:
		m.guide(ctx, s)
	}
}

// guide replies with mode-appropriate guidance without changing the mode.
func (m *Manager) guide(ctx context.Context, s *session.Session) {
	switch s.Mode {
	case session.ModeAwaitingText:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("unexpected.awaiting_text"), Keyboard: KeyboardCancel})
	case session.ModeAwaitingImage:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("unexpected.awaiting_image"), Keyboard: KeyboardCancel})
	default:
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("unexpected"), Keyboard: KeyboardMain})
	}
}

// send delivers a reply under the delivery deadline.
// Returns false if delivery failed; the failure is logged here.
func (m *Manager) send(ctx context.Context, userID int64, reply Reply) bool {
	dctx, cancel := context.WithTimeout(ctx, m.cfg.DeliveryTimeout)
	defer cancel()

	if err := m.transport.Deliver(dctx, userID, reply); err != nil {
		m.logger.Warn("delivery failed", "user_id", userID, "reply_kind", int(reply.Kind), "error", err)
		return false
	}
	return true
}
