package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// maxTextLenCeiling is the absolute maximum for max_text_len. QR version
	// 40 with medium error correction, which the codec encodes at, holds at
	// most 2331 bytes.
	maxTextLenCeiling = 2300

	// minArtifactTTL guards against a TTL so short that artifacts expire
	// before delivery can complete.
	minArtifactTTL = 10 * time.Second
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if strings.TrimSpace(c.BotToken) == "" {
		return fmt.Errorf("%w: set QR_BOT_TOKEN or bot_token in config.yaml\n"+
			"Create a bot and obtain a token from @BotFather", ErrMissingBotToken)
	}

	if c.MaxTextLen < 1 || c.MaxTextLen > maxTextLenCeiling {
		return fmt.Errorf("%w: must be between 1 and %d, got %d",
			ErrInvalidMaxTextLen, maxTextLenCeiling, c.MaxTextLen)
	}

	if c.PreviewLen < 1 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidPreviewLen, c.PreviewLen)
	}

	if c.DocumentThreshold < c.PreviewLen {
		return fmt.Errorf("%w: must be at least preview_len (%d), got %d",
			ErrInvalidDocumentThreshold, c.PreviewLen, c.DocumentThreshold)
	}

	if c.ArtifactTTL < minArtifactTTL {
		return fmt.Errorf("%w: must be at least %s, got %s",
			ErrInvalidArtifactTTL, minArtifactTTL, c.ArtifactTTL)
	}

	if c.SweepInterval < time.Second {
		return fmt.Errorf("%w: must be at least 1s, got %s",
			ErrInvalidSweepInterval, c.SweepInterval)
	}

	if c.CodecTimeout < time.Second {
		return fmt.Errorf("%w: codec_timeout must be at least 1s, got %s",
			ErrInvalidTimeout, c.CodecTimeout)
	}
	if c.DeliveryTimeout < time.Second {
		return fmt.Errorf("%w: delivery_timeout must be at least 1s, got %s",
			ErrInvalidTimeout, c.DeliveryTimeout)
	}
	if c.PollTimeout < time.Second {
		return fmt.Errorf("%w: poll_timeout must be at least 1s, got %s",
			ErrInvalidTimeout, c.PollTimeout)
	}

	if c.RateLimit <= 0 || c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_limit must be positive and rate_burst at least 1, got %.2f/%d",
			ErrInvalidRateLimit, c.RateLimit, c.RateBurst)
	}

	if strings.TrimSpace(c.SpoolDir) == "" {
		return fmt.Errorf("%w: spool_dir cannot be empty", ErrInvalidSpoolDir)
	}

	if c.SessionIdleEviction < time.Minute {
		slog.Warn("very aggressive session eviction configured",
			"session_idle_eviction", c.SessionIdleEviction)
	}

	return nil
}
