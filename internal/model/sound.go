package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

const (
	// DefaultSampleRate is used until audio tells us otherwise
	DefaultSampleRate = 12000

	// DefaultChannels is used until audio tells us otherwise
	DefaultChannels = 1
)

// LoopPoints are loop boundaries in sample frames
type LoopPoints struct {
	Start int
	End   int
}

// Valid returns true if the loop spans at least one frame
func (l LoopPoints) Valid() bool {
	return l.Start >= 0 && l.End > l.Start
}

// String formats the points as VGAudioCli expects them
func (l LoopPoints) String() string {
	return fmt.Sprintf("%d-%d", l.Start, l.End)
}

// Sound is one entry of a bank
type Sound struct {
	ID        string
	Name      string
	Extension nus3.Extension

	// Audio is playable/exportable audio; Bin when it could not be decoded
	Audio *codec.EncodedFile

	// Encoded holds the bytes written into the container
	Encoded []byte

	Loop            *LoopPoints
	SampleRate      int
	Channels        int
	LengthInSamples int
}

// NewSound returns an empty idsp sound
func NewSound(name string) *Sound {
	return &Sound{
		ID:         newID(),
		Name:       name,
		Extension:  nus3.ExtIDSP,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
	}
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Status classifies what data the sound holds
func (s *Sound) Status() SoundStatus {
	hasAudio := s.Audio != nil
	hasEncoded := s.Encoded != nil

	switch {
	case hasAudio && hasEncoded:
		return SoundStatusReady
	case hasAudio && s.Audio.Encoding.CanBeDecoded():
		return SoundStatusNotEncoded
	case hasAudio || hasEncoded:
		return SoundStatusUndecodable
	default:
		return SoundStatusEmpty
	}
}

// Filename returns name.ext
func (s *Sound) Filename() string {
	return s.Name + "." + string(s.Extension)
}

// Label returns the list label: filename plus status suffix
func (s *Sound) Label() string {
	return s.Filename() + s.Status().Suffix()
}

// LoopSeconds returns the loop points in seconds, or false without a loop
func (s *Sound) LoopSeconds() (start, end float64, ok bool) {
	if s.Loop == nil || s.SampleRate <= 0 {
		return 0, 0, false
	}
	rate := float64(s.SampleRate)
	return float64(s.Loop.Start) / rate, float64(s.Loop.End) / rate, true
}

// IsBin returns true if the sound is stored as opaque data
func (s *Sound) IsBin() bool {
	return s.Extension == nus3.ExtBin
}

// ValidateName checks a sound name can be stored in a container
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name cannot be empty")
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("name cannot contain NUL characters")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name cannot contain path separators")
	}
	return nil
}
