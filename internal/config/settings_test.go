package config

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/nus3audio-editor/internal/convert"
)

func lookPathOnly(found ...string) convert.LookPathFunc {
	return func(file string) (string, error) {
		for _, f := range found {
			if f == file {
				return "/usr/bin/" + f, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
	if settings.overrides == nil {
		t.Error("Overrides should default to empty")
	}
}

func TestVGAudioCliPath(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if got := settings.GetVGAudioCliPath(); got != convert.DefaultVGAudioCliPath() {
		t.Errorf("Expected default path %s, got %s", convert.DefaultVGAudioCliPath(), got)
	}

	settings.SetVGAudioCliPath("/opt/VGAudioCli.exe")
	if got := settings.GetVGAudioCliPath(); got != "/opt/VGAudioCli.exe" {
		t.Errorf("Expected custom path, got %s", got)
	}

	settings.SetVGAudioCliPath("")
	if got := settings.GetVGAudioCliPath(); got != "" {
		t.Errorf("An empty path should be kept, got %s", got)
	}
}

func TestDetectedDefaults(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)
	settings.lookPath = lookPathOnly("dotnet", convert.DefaultVgmstreamCommand)

	runtimePath := settings.GetRuntimePath()
	if runtimePath != "dotnet" && runtimePath != "" {
		t.Errorf("Expected detected runtime dotnet, got %s", runtimePath)
	}
	if got := settings.GetVgmstreamPath(); got != convert.DefaultVgmstreamCommand {
		t.Errorf("Expected detected vgmstream, got %s", got)
	}

	// Detection runs once; a cleared path stays cleared
	settings.SetVgmstreamPath("")
	settings.lookPath = lookPathOnly("mono", convert.DefaultVgmstreamCommand)
	if got := settings.GetVgmstreamPath(); got != "" {
		t.Errorf("Expected cleared vgmstream path, got %s", got)
	}
	if got := settings.GetRuntimePath(); got != runtimePath {
		t.Errorf("Runtime should not be detected again, got %s", got)
	}
}

func TestOverrides(t *testing.T) {
	settings := NewSettings(test.NewApp(), &Overrides{
		VGAudioCliPath: "/env/VGAudioCli.dll",
		RuntimePath:    "mono",
		VgmstreamPath:  "/env/vgmstream-cli",
	})
	settings.lookPath = lookPathOnly()

	settings.SetVGAudioCliPath("/pref/VGAudioCli.exe")
	settings.SetRuntimePath("wine")

	tools := settings.Tools()
	want := convert.Tools{
		VGAudioCliPath:  "/env/VGAudioCli.dll",
		RuntimePath:     "mono",
		VgmstreamPath:   "/env/vgmstream-cli",
		PreferVgmstream: true,
		Timeout:         time.Duration(DefaultToolTimeout) * time.Second,
	}
	if tools != want {
		t.Errorf("Expected tools %+v, got %+v", want, tools)
	}
}

func TestToolTimeout(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if got := settings.GetToolTimeout(); got != DefaultToolTimeout {
		t.Errorf("Expected default timeout %d, got %d", DefaultToolTimeout, got)
	}

	tests := []struct {
		set, want int
	}{
		{120, 120},
		{1, MinToolTimeout},
		{10000, MaxToolTimeout},
	}
	for _, tt := range tests {
		settings.SetToolTimeout(tt.set)
		if got := settings.GetToolTimeout(); got != tt.want {
			t.Errorf("SetToolTimeout(%d): expected %d, got %d", tt.set, tt.want, got)
		}
	}
}

func TestPreferVgmstream(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if !settings.GetPreferVgmstream() {
		t.Error("vgmstream should be preferred by default")
	}
	settings.SetPreferVgmstream(false)
	if settings.GetPreferVgmstream() {
		t.Error("Expected vgmstream preference to be disabled")
	}
}

func TestFirstTime(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if !settings.IsFirstTime() {
		t.Error("A fresh install should be the first time")
	}
	settings.SetFirstTimeDone()
	if settings.IsFirstTime() {
		t.Error("Expected first time to be cleared")
	}
}

func TestLastBrowseDir(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if got := settings.GetLastBrowseDir(); got != "" {
		t.Errorf("Expected no browse dir, got %s", got)
	}
	settings.SetLastBrowseDir("/music")
	if got := settings.GetLastBrowseDir(); got != "/music" {
		t.Errorf("Expected /music, got %s", got)
	}
}

func TestLanguage(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("ru")
	if lang := settings.GetLanguage(); lang != "ru" {
		t.Errorf("Expected language ru, got %s", lang)
	}

	options := settings.GetLanguageOptions()
	for _, key := range []string{"system", "en", "ru"} {
		if _, ok := options[key]; !ok {
			t.Errorf("Language option %s should exist", key)
		}
	}
}
