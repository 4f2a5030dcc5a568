// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override, QR_ prefix for overrides)
//  2. Config file (~/.qr-bot/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Telegram: bot token, long-poll timeout
//   - Limits: max input length, inline preview length, document threshold
//   - Artifacts: spool directory, TTL, sweep interval
//   - Timeouts: codec and delivery deadlines
//   - Rate limiting: per-user token bucket
//
// Security: the bot token is never logged; the config directory uses 0750
// permissions.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingBotToken indicates the Telegram bot token is not set.
	ErrMissingBotToken = errors.New("missing bot token")

	// ErrInvalidMaxTextLen indicates the max input length is out of range.
	ErrInvalidMaxTextLen = errors.New("invalid max text length")

	// ErrInvalidPreviewLen indicates the inline preview length is out of range.
	ErrInvalidPreviewLen = errors.New("invalid preview length")

	// ErrInvalidDocumentThreshold indicates the full-text document threshold
	// is smaller than the preview length.
	ErrInvalidDocumentThreshold = errors.New("invalid document threshold")

	// ErrInvalidArtifactTTL indicates the artifact TTL is out of range.
	ErrInvalidArtifactTTL = errors.New("invalid artifact TTL")

	// ErrInvalidSweepInterval indicates the sweep interval is out of range.
	ErrInvalidSweepInterval = errors.New("invalid sweep interval")

	// ErrInvalidTimeout indicates a timeout value is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidRateLimit indicates the per-user rate limit is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidSpoolDir indicates the spool directory is not usable.
	ErrInvalidSpoolDir = errors.New("invalid spool directory")
)

const (
	// DefaultMaxTextLen is the maximum accepted input length in runes.
	DefaultMaxTextLen = 2000

	// DefaultPreviewLen is the number of runes of decoded text shown inline.
	DefaultPreviewLen = 500

	// DefaultDocumentThreshold is the decoded-text length above which the
	// full text is additionally delivered as a document.
	DefaultDocumentThreshold = 4000

	// DefaultArtifactTTL bounds the lifetime of any artifact that is not
	// explicitly deleted after delivery.
	DefaultArtifactTTL = 5 * time.Minute

	// DefaultSweepInterval is the period of the expiry sweep.
	DefaultSweepInterval = 5 * time.Minute
)

// Config stores application configuration.
// SECURITY: BotToken is sensitive and must never be logged.
type Config struct {
	// Telegram transport
	BotToken    string        `mapstructure:"bot_token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`

	// Conversation limits
	MaxTextLen        int    `mapstructure:"max_text_len"`
	PreviewLen        int    `mapstructure:"preview_len"`
	DocumentThreshold int    `mapstructure:"document_threshold"`
	Language          string `mapstructure:"language"`

	// Artifact lifecycle
	SpoolDir      string        `mapstructure:"spool_dir"`
	ArtifactTTL   time.Duration `mapstructure:"artifact_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	// RetainUploads keeps uploaded images until their TTL instead of
	// deleting them immediately after the decode attempt. The original
	// immediate-delete behaviour is a privacy default, not a hard rule.
	RetainUploads bool `mapstructure:"retain_uploads"`

	// External call deadlines
	CodecTimeout    time.Duration `mapstructure:"codec_timeout"`
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`

	// Per-user rate limit (events per second, burst)
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	// Session eviction after prolonged inactivity
	SessionIdleEviction time.Duration `mapstructure:"session_idle_eviction"`

	// Stats snapshot file (empty disables persistence)
	StatsFile string `mapstructure:"stats_file"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".qr-bot")

	// Ensure directory exists (0750 for better security)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("poll_timeout", 30*time.Second)

	v.SetDefault("max_text_len", DefaultMaxTextLen)
	v.SetDefault("preview_len", DefaultPreviewLen)
	v.SetDefault("document_threshold", DefaultDocumentThreshold)
	v.SetDefault("language", "en")

	v.SetDefault("spool_dir", filepath.Join(configDir, "spool"))
	v.SetDefault("artifact_ttl", DefaultArtifactTTL)
	v.SetDefault("sweep_interval", DefaultSweepInterval)
	v.SetDefault("retain_uploads", false)

	v.SetDefault("codec_timeout", 10*time.Second)
	v.SetDefault("delivery_timeout", 30*time.Second)

	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 5)

	v.SetDefault("session_idle_eviction", 24*time.Hour)

	v.SetDefault("stats_file", filepath.Join(configDir, "stats.json"))

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// bindEnvVariables binds environment variables explicitly.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key string, envVars ...string) {
		args := append([]string{key}, envVars...)
		if err := v.BindEnv(args...); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q: %v", key, err))
		}
	}

	// Bot token: QR_BOT_TOKEN preferred, BOT_TOKEN accepted for parity with
	// older deployments.
	mustBind("bot_token", "QR_BOT_TOKEN", "BOT_TOKEN")

	mustBind("spool_dir", "QR_SPOOL_DIR")
	mustBind("language", "QR_LANG")
	mustBind("log_level", "QR_LOG_LEVEL")
	mustBind("log_json", "QR_LOG_JSON")
	mustBind("retain_uploads", "QR_RETAIN_UPLOADS")
}
