package bot

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/j31732830-dot/Qr/internal/artifact"
	"github.com/j31732830-dot/Qr/internal/i18n"
	"github.com/j31732830-dot/Qr/internal/qr"
	"github.com/j31732830-dot/Qr/internal/session"
	"github.com/j31732830-dot/Qr/internal/stats"
)

// ArtifactStore is the slice of the artifact store the pipelines need.
// Defined here, by the consumer; *artifact.Store satisfies it.
type ArtifactStore interface {
	Create(kind artifact.Kind, payload []byte, ttl time.Duration) (uuid.UUID, error)
	Delete(id uuid.UUID) error
	Count() int
}

// encodePipeline turns accepted text into a generated-image artifact and
// delivers it. Every exit except the length error lands in ModeIdle; a fresh
// attempt requires re-entering AwaitingText.
func (m *Manager) encodePipeline(ctx context.Context, s *session.Session, text string) {
	length := utf8.RuneCountInString(text)
	if length > m.cfg.MaxTextLen {
		// Oversized input keeps the mode: the user just retries with
		// shorter text.
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.Tf("error.too_long", m.cfg.MaxTextLen), Keyboard: KeyboardCancel})
		return
	}

	s.Mode = session.ModeIdle

	png, err := m.encode(ctx, text)
	if err != nil {
		m.logger.Error("encode failed", "user_id", s.UserID, "text_len", length, "error", err)
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("encode.failed"), Keyboard: KeyboardMain})
		return
	}

	id, err := m.store.Create(artifact.KindGeneratedImage, png, m.cfg.ArtifactTTL)
	if err != nil {
		m.logger.Error("storing generated image failed", "user_id", s.UserID, "error", err)
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("encode.failed"), Keyboard: KeyboardMain})
		return
	}
	m.recorder.Record(stats.Event{Kind: stats.Generated})

	delivered := m.send(ctx, s.UserID, Reply{
		Kind:     ReplyPhoto,
		Payload:  png,
		Filename: "qr_code.png",
		Text:     i18n.Tf("encode.caption", length),
		Keyboard: KeyboardMain,
	})
	if !delivered {
		// Leave the artifact for the TTL sweep; never retry.
		m.logger.Warn("generated image left for sweep", "artifact_id", id)
		return
	}
	if err := m.store.Delete(id); err != nil {
		m.logger.Warn("post-delivery delete failed", "artifact_id", id, "error", err)
	}
}

// encode bounds the codec call with CodecTimeout. The codec is not trusted to
// honor cancellation, so the call runs in its own goroutine; on expiry the
// pipeline moves on and the abandoned call finishes in the background.
func (m *Manager) encode(ctx context.Context, text string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, m.cfg.CodecTimeout)
	defer cancel()

	type result struct {
		png []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		png, err := m.codec.Encode(cctx, text)
		ch <- result{png: png, err: err}
	}()

	select {
	case r := <-ch:
		return r.png, r.err
	case <-cctx.Done():
		return nil, cctx.Err()
	}
}

// decode is the Decode counterpart of encode, with the same timeout contract.
func (m *Manager) decode(ctx context.Context, image []byte) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, m.cfg.CodecTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := m.codec.Decode(cctx, image)
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-cctx.Done():
		return "", cctx.Err()
	}
}

// decodePipeline registers the upload, attempts the decode, and reports the
// result. The uploaded artifact never outlives the decode attempt unless
// RetainUploads is set, in which case the TTL bounds it.
func (m *Manager) decodePipeline(ctx context.Context, s *session.Session, image []byte) {
	s.Mode = session.ModeIdle

	upload, err := m.store.Create(artifact.KindUploadedImage, image, m.cfg.ArtifactTTL)
	if err != nil {
		m.logger.Error("storing upload failed", "user_id", s.UserID, "size", len(image), "error", err)
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("decode.failed"), Keyboard: KeyboardMain})
		return
	}
	if !m.cfg.RetainUploads {
		defer func() {
			if err := m.store.Delete(upload); err != nil {
				m.logger.Warn("deleting upload failed", "artifact_id", upload, "error", err)
			}
		}()
	}

	text, err := m.decode(ctx, image)
	switch {
	case errors.Is(err, qr.ErrNotFound):
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("decode.not_found"), Keyboard: KeyboardMain})
		return
	case err != nil:
		m.logger.Error("decode failed", "user_id", s.UserID, "size", len(image), "error", err)
		m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.T("decode.failed"), Keyboard: KeyboardMain})
		return
	}
	m.recorder.Record(stats.Event{Kind: stats.Scanned})

	total := utf8.RuneCountInString(text)
	preview := text
	if total > m.cfg.PreviewLen {
		preview = string([]rune(text)[:m.cfg.PreviewLen]) + i18n.Tf("decode.truncated_note", total)
	}
	m.send(ctx, s.UserID, Reply{Kind: ReplyMessage, Text: i18n.Tf("decode.success", preview, total), Keyboard: KeyboardMain})

	if total <= m.cfg.DocumentThreshold {
		return
	}

	// Overflow: the full text travels as a document.
	doc, err := m.store.Create(artifact.KindDecodedText, []byte(text), m.cfg.ArtifactTTL)
	if err != nil {
		m.logger.Error("storing decoded text failed", "user_id", s.UserID, "text_len", total, "error", err)
		return
	}
	delivered := m.send(ctx, s.UserID, Reply{
		Kind:     ReplyDocument,
		Payload:  []byte(text),
		Filename: "qr_text.txt",
		Text:     i18n.T("decode.document_caption"),
	})
	if !delivered {
		m.logger.Warn("decoded text left for sweep", "artifact_id", doc)
		return
	}
	if err := m.store.Delete(doc); err != nil {
		m.logger.Warn("post-delivery delete failed", "artifact_id", doc, "error", err)
	}
}
