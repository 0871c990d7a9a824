package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestNewOverrides(t *testing.T) {
	cfg, err := NewOverrides(context.Background(), envconfig.MapLookuper(map[string]string{
		"NUS3AUDIO_VGAUDIO_CLI": "/opt/VGAudioCli.dll",
		"NUS3AUDIO_RUNTIME":     "dotnet",
	}))
	if err != nil {
		t.Fatalf("NewOverrides failed: %v", err)
	}

	if cfg.VGAudioCliPath != "/opt/VGAudioCli.dll" {
		t.Errorf("Expected VGAudioCli override, got %q", cfg.VGAudioCliPath)
	}
	if cfg.RuntimePath != "dotnet" {
		t.Errorf("Expected runtime override, got %q", cfg.RuntimePath)
	}
	if cfg.VgmstreamPath != "" {
		t.Errorf("Expected no vgmstream override, got %q", cfg.VgmstreamPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected default log level warn, got %q", cfg.LogLevel)
	}
}

func TestOverridesLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
		{"loud", slog.LevelWarn},
	}
	for _, tt := range tests {
		o := &Overrides{LogLevel: tt.in}
		if got := o.Level(); got != tt.want {
			t.Errorf("Level(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	var nilOverrides *Overrides
	if nilOverrides.Level() != slog.LevelWarn {
		t.Error("nil overrides should log at warn")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "NUS3AUDIO_VGMSTREAM=/env/vgmstream\nNUS3AUDIO_LOG_LEVEL=debug\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NUS3AUDIO_VGMSTREAM", "")
	os.Unsetenv("NUS3AUDIO_VGMSTREAM")
	t.Setenv("NUS3AUDIO_LOG_LEVEL", "error")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), file); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	cfg, err := NewOverridesFromEnv(context.Background())
	if err != nil {
		t.Fatalf("NewOverridesFromEnv failed: %v", err)
	}
	if cfg.VgmstreamPath != "/env/vgmstream" {
		t.Errorf("Expected vgmstream from .env, got %q", cfg.VgmstreamPath)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Existing variables must win over .env, got %q", cfg.LogLevel)
	}
}
