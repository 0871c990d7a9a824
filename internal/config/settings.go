package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/nus3audio-editor/internal/convert"
)

// Settings keys for Fyne preferences
const (
	KeyVGAudioCliPath   = "vgaudio_cli_path"
	KeyRuntimePath      = "vgaudio_cli_prepath"
	KeyVgmstreamPath    = "vgmstream_path"
	KeyPreferVgmstream  = "prefer_vgmstream_decode"
	KeyFirstTime        = "first_time"
	KeyLastBrowseDir    = "last_browse_dir"
	KeyLanguage         = "app_language"
	KeyToolTimeout      = "tool_timeout_seconds"
	keyDefaultsDetected = "tool_defaults_detected"
)

// Default values
const (
	DefaultPreferVgmstream = true
	DefaultLanguage        = "system"
	DefaultToolTimeout     = int(convert.DefaultToolTimeout / time.Second)
	MinToolTimeout         = 5
	MaxToolTimeout         = 600
)

// Settings manages application configuration
type Settings struct {
	app       fyne.App
	overrides *Overrides
	lookPath  convert.LookPathFunc
}

// NewSettings creates a new settings manager. Non-empty overrides win over
// stored preferences.
func NewSettings(app fyne.App, overrides *Overrides) *Settings {
	if overrides == nil {
		overrides = &Overrides{}
	}
	return &Settings{app: app, overrides: overrides}
}

// detectDefaults stores the searched-for tool defaults once
func (s *Settings) detectDefaults() {
	prefs := s.app.Preferences()
	if prefs.Bool(keyDefaultsDetected) {
		return
	}
	prefs.SetString(KeyRuntimePath, convert.DetectRuntime(s.lookPath))
	prefs.SetString(KeyVgmstreamPath, convert.DetectVgmstream(s.lookPath))
	prefs.SetBool(keyDefaultsDetected, true)
}

// GetVGAudioCliPath returns the VGAudioCli executable path
func (s *Settings) GetVGAudioCliPath() string {
	if s.overrides.VGAudioCliPath != "" {
		return s.overrides.VGAudioCliPath
	}
	return s.app.Preferences().StringWithFallback(KeyVGAudioCliPath, convert.DefaultVGAudioCliPath())
}

// SetVGAudioCliPath sets the VGAudioCli executable path
func (s *Settings) SetVGAudioCliPath(path string) {
	s.app.Preferences().SetString(KeyVGAudioCliPath, path)
}

// GetRuntimePath returns the program VGAudioCli runs under; empty runs it directly
func (s *Settings) GetRuntimePath() string {
	if s.overrides.RuntimePath != "" {
		return s.overrides.RuntimePath
	}
	s.detectDefaults()
	return s.app.Preferences().String(KeyRuntimePath)
}

// SetRuntimePath sets the runtime path
func (s *Settings) SetRuntimePath(path string) {
	s.detectDefaults()
	s.app.Preferences().SetString(KeyRuntimePath, path)
}

// GetVgmstreamPath returns the vgmstream executable; empty disables it
func (s *Settings) GetVgmstreamPath() string {
	if s.overrides.VgmstreamPath != "" {
		return s.overrides.VgmstreamPath
	}
	s.detectDefaults()
	return s.app.Preferences().String(KeyVgmstreamPath)
}

// SetVgmstreamPath sets the vgmstream executable path
func (s *Settings) SetVgmstreamPath(path string) {
	s.detectDefaults()
	s.app.Preferences().SetString(KeyVgmstreamPath, path)
}

// GetPreferVgmstream returns whether vgmstream decodes before VGAudioCli
func (s *Settings) GetPreferVgmstream() bool {
	return s.app.Preferences().BoolWithFallback(KeyPreferVgmstream, DefaultPreferVgmstream)
}

// SetPreferVgmstream sets the decoder preference
func (s *Settings) SetPreferVgmstream(prefer bool) {
	s.app.Preferences().SetBool(KeyPreferVgmstream, prefer)
}

// IsFirstTime returns true until the greeting has been shown
func (s *Settings) IsFirstTime() bool {
	return s.app.Preferences().BoolWithFallback(KeyFirstTime, true)
}

// SetFirstTimeDone records that the greeting has been shown
func (s *Settings) SetFirstTimeDone() {
	s.app.Preferences().SetBool(KeyFirstTime, false)
}

// GetLastBrowseDir returns the directory of the last file dialog
func (s *Settings) GetLastBrowseDir() string {
	return s.app.Preferences().String(KeyLastBrowseDir)
}

// SetLastBrowseDir sets the directory of the last file dialog
func (s *Settings) SetLastBrowseDir(dir string) {
	s.app.Preferences().SetString(KeyLastBrowseDir, dir)
}

// GetToolTimeout returns the external tool timeout in seconds
func (s *Settings) GetToolTimeout() int {
	value := s.app.Preferences().Int(KeyToolTimeout)
	if value <= 0 {
		s.SetToolTimeout(DefaultToolTimeout)
		return DefaultToolTimeout
	}
	return value
}

// SetToolTimeout sets the external tool timeout in seconds
func (s *Settings) SetToolTimeout(seconds int) {
	if seconds < MinToolTimeout {
		seconds = MinToolTimeout
	}
	if seconds > MaxToolTimeout {
		seconds = MaxToolTimeout
	}
	s.app.Preferences().SetInt(KeyToolTimeout, seconds)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
	}
}

// Tools returns the current tool configuration for the converter
func (s *Settings) Tools() convert.Tools {
	return convert.Tools{
		VGAudioCliPath:  s.GetVGAudioCliPath(),
		RuntimePath:     s.GetRuntimePath(),
		VgmstreamPath:   s.GetVgmstreamPath(),
		PreferVgmstream: s.GetPreferVgmstream(),
		Timeout:         time.Duration(s.GetToolTimeout()) * time.Second,
	}
}
