package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DotEnvFile is loaded from the working directory when present
const DotEnvFile = ".env"

// Overrides are environment settings that take precedence over preferences
type Overrides struct {
	VGAudioCliPath string `env:"NUS3AUDIO_VGAUDIO_CLI"`
	RuntimePath    string `env:"NUS3AUDIO_RUNTIME"`
	VgmstreamPath  string `env:"NUS3AUDIO_VGMSTREAM"`
	LogLevel       string `env:"NUS3AUDIO_LOG_LEVEL, default=warn"`
}

// LoadDotEnv loads variables from files into the environment without
// replacing ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DotEnvFile}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// NewOverridesFromEnv reads overrides from the process environment
func NewOverridesFromEnv(ctx context.Context) (*Overrides, error) {
	return NewOverrides(ctx, envconfig.OsLookuper())
}

// NewOverrides reads overrides through lookuper
func NewOverrides(ctx context.Context, lookuper envconfig.Lookuper) (*Overrides, error) {
	var cfg Overrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level returns the configured log level, warn when unset or invalid
func (o *Overrides) Level() slog.Level {
	if o == nil {
		return slog.LevelWarn
	}
	return ParseLevel(o.LogLevel)
}

// ParseLevel maps a level name to a slog level, warn when empty or invalid
func ParseLevel(name string) slog.Level {
	level := slog.LevelWarn
	if strings.TrimSpace(name) == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelWarn
	}
	return level
}
