package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		BotToken:            "123456:test-token",
		PollTimeout:         30 * time.Second,
		MaxTextLen:          DefaultMaxTextLen,
		PreviewLen:          DefaultPreviewLen,
		DocumentThreshold:   DefaultDocumentThreshold,
		SpoolDir:            "/tmp/qr-spool",
		ArtifactTTL:         DefaultArtifactTTL,
		SweepInterval:       DefaultSweepInterval,
		CodecTimeout:        10 * time.Second,
		DeliveryTimeout:     30 * time.Second,
		RateLimit:           1,
		RateBurst:           5,
		SessionIdleEviction: 24 * time.Hour,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QR_BOT_TOKEN", "123456:test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.BotToken)
	assert.Equal(t, DefaultMaxTextLen, cfg.MaxTextLen)
	assert.Equal(t, DefaultPreviewLen, cfg.PreviewLen)
	assert.Equal(t, DefaultDocumentThreshold, cfg.DocumentThreshold)
	assert.Equal(t, DefaultArtifactTTL, cfg.ArtifactTTL)
	assert.Equal(t, DefaultSweepInterval, cfg.SweepInterval)
	assert.False(t, cfg.RetainUploads)
	assert.NotEmpty(t, cfg.SpoolDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QR_BOT_TOKEN", "123456:test-token")
	t.Setenv("QR_LANG", "uz")
	t.Setenv("QR_LOG_LEVEL", "debug")
	t.Setenv("QR_RETAIN_UPLOADS", "true")
	t.Setenv("QR_SPOOL_DIR", "/tmp/elsewhere")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "uz", cfg.Language)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RetainUploads)
	assert.Equal(t, "/tmp/elsewhere", cfg.SpoolDir)
}

func TestLoad_LegacyTokenVariable(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:legacy-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123456:legacy-token", cfg.BotToken)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("QR_BOT_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingBotToken)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.BotToken = "  " },
			wantErr: ErrMissingBotToken,
		},
		{
			name:    "zero max text len",
			mutate:  func(c *Config) { c.MaxTextLen = 0 },
			wantErr: ErrInvalidMaxTextLen,
		},
		{
			name:    "max text len above QR capacity",
			mutate:  func(c *Config) { c.MaxTextLen = 2500 },
			wantErr: ErrInvalidMaxTextLen,
		},
		{
			name:    "zero preview len",
			mutate:  func(c *Config) { c.PreviewLen = 0 },
			wantErr: ErrInvalidPreviewLen,
		},
		{
			name:    "document threshold below preview",
			mutate:  func(c *Config) { c.DocumentThreshold = c.PreviewLen - 1 },
			wantErr: ErrInvalidDocumentThreshold,
		},
		{
			name:    "ttl too short",
			mutate:  func(c *Config) { c.ArtifactTTL = time.Second },
			wantErr: ErrInvalidArtifactTTL,
		},
		{
			name:    "sweep interval too short",
			mutate:  func(c *Config) { c.SweepInterval = 100 * time.Millisecond },
			wantErr: ErrInvalidSweepInterval,
		},
		{
			name:    "codec timeout too short",
			mutate:  func(c *Config) { c.CodecTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "delivery timeout too short",
			mutate:  func(c *Config) { c.DeliveryTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "poll timeout too short",
			mutate:  func(c *Config) { c.PollTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimit = 0 },
			wantErr: ErrInvalidRateLimit,
		},
		{
			name:    "zero rate burst",
			mutate:  func(c *Config) { c.RateBurst = 0 },
			wantErr: ErrInvalidRateLimit,
		},
		{
			name:    "empty spool dir",
			mutate:  func(c *Config) { c.SpoolDir = "" },
			wantErr: ErrInvalidSpoolDir,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	var cfg *Config
	assert.ErrorIs(t, cfg.Validate(), ErrConfigNil)
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel())
	}
}
