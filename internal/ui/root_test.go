package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/nus3audio-editor/internal/config"
	"github.com/ytget/nus3audio-editor/internal/convert"
	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/platform"
	"github.com/ytget/nus3audio-editor/internal/playback"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{75*time.Second + 260*time.Millisecond, "1:15.3"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestSoundDetails(t *testing.T) {
	info := editor.SoundInfo{
		Status:      model.SoundStatusReady,
		SampleRate:  48000,
		Loop:        &model.LoopPoints{Start: 0, End: 100},
		EncodedSize: 2048,
	}
	if got := soundDetails(info); got != "48000 Hz · ⟲ 0-100 · 2.0 kB" {
		t.Errorf("Unexpected details %q", got)
	}

	if got := soundDetails(editor.SoundInfo{Status: model.SoundStatusEmpty}); got != "" {
		t.Errorf("Empty sounds have no details, got %q", got)
	}
}

func TestStatusImportance(t *testing.T) {
	if statusImportance(model.SoundStatusUndecodable) != widget.DangerImportance {
		t.Error("Undecodable sounds should be highlighted")
	}
	if statusImportance(model.SoundStatusReady) != widget.MediumImportance {
		t.Error("Ready sounds use the default colour")
	}
}

func TestRemovePlaceholder(t *testing.T) {
	dir := t.TempDir()
	chosen := filepath.Join(dir, "bank")
	written := chosen + ".nus3audio"
	if err := os.WriteFile(chosen, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(written, []byte("NUS3"), 0o644); err != nil {
		t.Fatal(err)
	}

	removePlaceholder(written, written)
	if _, err := os.Stat(written); err != nil {
		t.Errorf("Expected %s to stay when it was written, got %v", written, err)
	}

	removePlaceholder(chosen, written)
	if _, err := os.Stat(chosen); !os.IsNotExist(err) {
		t.Errorf("Expected empty placeholder to be removed, got %v", err)
	}

	kept := filepath.Join(dir, "notes")
	if err := os.WriteFile(kept, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	removePlaceholder(kept, written)
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("Expected non-empty file to stay, got %v", err)
	}
}

func TestQuitRemovesCache(t *testing.T) {
	app := test.NewApp()
	window := app.NewWindow("test")

	root := filepath.Join(t.TempDir(), "cache")
	cache := platform.NewCacheDir(root)
	if err := cache.Reset(); err != nil {
		t.Fatal(err)
	}

	settings := config.NewSettings(app, nil)
	editorSvc := editor.NewService(convert.NewService(settings.Tools, nil), cache)
	ui := NewRootUI(window, app, editorSvc, playback.NewPlayer(nil), settings, cache, DefaultVersion)

	ui.quit()
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("Expected cache %s to be removed on quit, got %v", root, err)
	}

	// a second quit is a no-op
	ui.quit()
}
