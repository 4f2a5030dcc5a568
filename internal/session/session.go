package session

import "time"

// Mode is the current input mode of a conversation.
type Mode string

const (
	// ModeIdle accepts only start commands and informational requests.
	ModeIdle Mode = "idle"

	// ModeAwaitingText expects the text to encode into a QR image.
	ModeAwaitingText Mode = "awaiting_text"

	// ModeAwaitingImage expects the image to decode.
	ModeAwaitingImage Mode = "awaiting_image"
)

// Session is the per-user conversation state.
// Mutated only under the Registry's per-user serialization.
type Session struct {
	UserID         int64
	Mode           Mode
	CreatedAt      time.Time
	LastActivityAt time.Time
}
