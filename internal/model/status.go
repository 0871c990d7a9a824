package model

// SoundStatus describes how far a sound is from being saveable
type SoundStatus string

const (
	// SoundStatusReady means the sound has audio and container-ready bytes
	SoundStatusReady SoundStatus = "Ready"

	// SoundStatusNotEncoded means the sound has audio that still needs encoding
	SoundStatusNotEncoded SoundStatus = "NotEncoded"

	// SoundStatusUndecodable means the sound's data could not be turned into audio
	SoundStatusUndecodable SoundStatus = "Undecodable"

	// SoundStatusEmpty means the sound has no data at all
	SoundStatusEmpty SoundStatus = "Empty"
)

// String returns the string representation of SoundStatus
func (s SoundStatus) String() string {
	return string(s)
}

// Suffix returns the text appended to a sound label in the list
func (s SoundStatus) Suffix() string {
	switch s {
	case SoundStatusNotEncoded:
		return " (Not yet encoded)"
	case SoundStatusUndecodable:
		return " (Could not decode)"
	case SoundStatusEmpty:
		return " (Empty)"
	default:
		return ""
	}
}

// IsPlayable returns true if the sound has decodable audio
func (s SoundStatus) IsPlayable() bool {
	return s == SoundStatusReady || s == SoundStatusNotEncoded
}

// PlaybackState is the state of the single audio player
type PlaybackState string

const (
	PlaybackStopped PlaybackState = "Stopped"
	PlaybackPlaying PlaybackState = "Playing"
	PlaybackPaused  PlaybackState = "Paused"
)

// String returns the string representation of PlaybackState
func (p PlaybackState) String() string {
	return string(p)
}

// IsActive returns true if a stream is loaded
func (p PlaybackState) IsActive() bool {
	return p == PlaybackPlaying || p == PlaybackPaused
}
