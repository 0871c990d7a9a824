package ui

import "time"

// Icons
const (
	IconPlay  = "▶"
	IconPause = "⏸"
	IconStop  = "■"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	PositionFormat     = "%s / %s"
)

// Layout sizing
const (
	WindowWidth      float32 = 450
	WindowHeight     float32 = 400
	PropertiesWidth  float32 = 360
	SettingsWidth    float32 = 500
	SettingsHeight   float32 = 360
	PlayButtonWidth  float32 = 48
	PositionMinWidth float32 = 96
)

// Timing
const (
	// SliderTick is how often the position slider follows playback
	SliderTick = 100 * time.Millisecond

	NotificationAutoHide = 5 * time.Second
)

// URLs
const (
	ManualURL      = "https://github.com/junetried/simple-nus3audio-gui/wiki/Usage-Manual"
	VGAudioCliURL  = "https://ci.appveyor.com/project/Thealexbarney/VGAudio/build/artifacts"
	AppName        = "nus3audio Editor"
	AppID          = "com.ytget.nus3audio-editor"
	DefaultVersion = "dev"
)

// File dialog filters
var (
	BankFilter         = []string{".nus3audio"}
	ReplaceFilter      = []string{".ogg", ".flac", ".wav", ".mp3", ".idsp", ".lopus"}
	ExportFilter       = []string{".wav", ".idsp", ".lopus"}
	ExportBinaryFilter = []string{".bin"}
)
