// Package telegram is the platform adapter between the Bot API and the
// conversation manager.
//
// The Dispatcher long-polls getUpdates, maps each update to a bot.Event
// (command, text, image or cancel) and hands it to the Handler through a
// per-chat worker queue, so events for one chat arrive at the manager in
// order while chats proceed in parallel. The Sender implements bot.Transport
// for the outbound direction. Neither side holds conversation state; mode
// decisions belong to the manager.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/j31732830-dot/Qr/internal/bot"
	"github.com/j31732830-dot/Qr/internal/i18n"
)

// Handler consumes mapped events. *bot.Manager satisfies it.
type Handler interface {
	Handle(ctx context.Context, ev bot.Event)
}

const (
	// workerQueueSize bounds the per-chat event backlog. Events past the
	// bound are dropped with a log line; the user simply retries.
	workerQueueSize = 16

	// workerIdleAfter is how long a chat worker may sit without events
	// before it exits and is removed from the worker map.
	workerIdleAfter = 10 * time.Minute
)

// Dispatcher runs the inbound update loop.
type Dispatcher struct {
	api         *Client
	handler     Handler
	pollTimeout time.Duration
	idleAfter   time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	workers map[int64]chan bot.Event
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(api *Client, handler Handler, pollTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		api:         api,
		handler:     handler,
		pollTimeout: pollTimeout,
		idleAfter:   workerIdleAfter,
		logger:      logger,
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// workers to drain. Returns nil on cancellation.
func (d *Dispatcher) Run(ctx context.Context) error {
	me, err := d.waitForIdentity(ctx)
	if err != nil {
		return err
	}
	if me == nil {
		return nil // cancelled during startup
	}
	d.logger.Info("telegram polling started",
		"bot_username", me.Username,
		"bot_id", me.ID,
		"poll_timeout", d.pollTimeout.String())

	var offset int64
	for {
		updates, next, err := d.api.GetUpdates(ctx, offset, d.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			d.logger.Warn("getUpdates failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		offset = next

		for _, u := range updates {
			msg := u.Message
			if msg == nil || msg.Chat == nil || msg.From == nil || msg.From.IsBot {
				continue
			}
			ev, ok := d.mapEvent(ctx, msg)
			if !ok {
				continue
			}
			d.enqueue(ctx, ev)
		}
	}

	d.wg.Wait()
	d.logger.Info("telegram polling stopped")
	return nil
}

// waitForIdentity retries getMe until it succeeds or ctx is cancelled.
// Returns (nil, nil) on cancellation.
func (d *Dispatcher) waitForIdentity(ctx context.Context) (*User, error) {
	for {
		me, err := d.api.GetMe(ctx)
		if err == nil {
			return me, nil
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil, nil
		}
		d.logger.Warn("getMe failed", "error", err)
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(2 * time.Second):
		}
	}
}

// enqueue hands the event to the chat's worker, starting one if needed.
// A full queue drops the event. The send happens under d.mu so a worker
// retiring itself cannot orphan the event.
func (d *Dispatcher) enqueue(ctx context.Context, ev bot.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.workers[ev.UserID]
	if !ok {
		if d.workers == nil {
			d.workers = make(map[int64]chan bot.Event)
		}
		ch = make(chan bot.Event, workerQueueSize)
		d.workers[ev.UserID] = ch
		d.wg.Add(1)
		go d.runWorker(ctx, ev.UserID, ch)
	}

	select {
	case ch <- ev:
	default:
		d.logger.Warn("event queue full, dropping event", "user_id", ev.UserID, "event_kind", int(ev.Kind))
	}
}

// runWorker drains one chat's queue. A worker idle past d.idleAfter removes
// itself from the map and exits; the next event starts a fresh one.
func (d *Dispatcher) runWorker(ctx context.Context, userID int64, ch chan bot.Event) {
	defer d.wg.Done()
	idle := time.NewTimer(d.idleAfter)
	defer idle.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			d.handler.Handle(ctx, ev)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(d.idleAfter)
		case <-idle.C:
			d.mu.Lock()
			if len(ch) > 0 {
				// An event arrived while the timer fired; keep going.
				d.mu.Unlock()
				idle.Reset(d.idleAfter)
				continue
			}
			delete(d.workers, userID)
			d.mu.Unlock()
			return
		}
	}
}

// mapEvent converts a Bot API message into a bot.Event.
// Returns false when the message carries nothing to handle (or was answered
// directly, like a non-image document).
func (d *Dispatcher) mapEvent(ctx context.Context, msg *Message) (bot.Event, bool) {
	chatID := msg.Chat.ID

	if len(msg.Photo) > 0 || msg.Document != nil {
		return d.mapUpload(ctx, chatID, msg)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return bot.Event{}, false
	}

	switch text {
	case "/start":
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandStart}, true
	case "/help":
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandHelp}, true
	case i18n.T("button.text_to_qr"):
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandTextToQR}, true
	case i18n.T("button.qr_to_text"):
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandQRToText}, true
	case i18n.T("button.info"):
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandInfo}, true
	case i18n.T("button.stats"):
		return bot.Event{UserID: chatID, Kind: bot.EventCommand, Command: bot.CommandStats}, true
	case i18n.T("button.cancel"):
		return bot.Event{UserID: chatID, Kind: bot.EventCancel}, true
	}

	return bot.Event{UserID: chatID, Kind: bot.EventText, Text: text}, true
}

// mapUpload downloads the image behind a photo or document message.
// Content-type validation happens here: a non-image document is answered
// directly and never reaches the manager.
func (d *Dispatcher) mapUpload(ctx context.Context, chatID int64, msg *Message) (bot.Event, bool) {
	var fileID string
	switch {
	case len(msg.Photo) > 0:
		// Sizes arrive smallest first; take the largest.
		fileID = msg.Photo[len(msg.Photo)-1].FileID
	case strings.HasPrefix(msg.Document.MimeType, "image/"):
		fileID = msg.Document.FileID
	default:
		d.reply(ctx, chatID, i18n.T("error.not_image"))
		return bot.Event{}, false
	}

	f, err := d.api.GetFile(ctx, fileID)
	if err != nil {
		d.logger.Warn("getFile failed", "chat_id", chatID, "error", err)
		d.reply(ctx, chatID, i18n.T("decode.failed"))
		return bot.Event{}, false
	}
	data, err := d.api.DownloadFile(ctx, f.FilePath)
	if err != nil {
		d.logger.Warn("file download failed", "chat_id", chatID, "error", err)
		d.reply(ctx, chatID, i18n.T("decode.failed"))
		return bot.Event{}, false
	}

	return bot.Event{UserID: chatID, Kind: bot.EventImage, Image: data}, true
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if err := d.api.SendMessage(ctx, chatID, text, nil); err != nil {
		d.logger.Warn("direct reply failed", "chat_id", chatID, "error", err)
	}
}
