package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

func TestNewSound(t *testing.T) {
	s := NewSound("new_sound_0")

	want := &Sound{
		Name:       "new_sound_0",
		Extension:  nus3.ExtIDSP,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
	}
	if diff := cmp.Diff(want, s, cmpopts.IgnoreFields(Sound{}, "ID")); diff != "" {
		t.Errorf("NewSound() mismatch (-want +got):\n%s", diff)
	}
	if s.ID == "" {
		t.Error("ID should be set")
	}
	if other := NewSound("x"); other.ID == s.ID {
		t.Error("IDs should be unique")
	}
}

func TestSound_Status(t *testing.T) {
	wav := codec.NewEncodedFile([]byte("RIFF"), codec.EncodingWAV)
	bin := codec.NewEncodedFile([]byte("IDSP"), codec.EncodingBin)

	tests := []struct {
		name     string
		audio    *codec.EncodedFile
		encoded  []byte
		expected SoundStatus
		label    string
	}{
		{"ready", wav, []byte("IDSP"), SoundStatusReady, "s.idsp"},
		{"bin audio with bytes", bin, []byte("IDSP"), SoundStatusReady, "s.idsp"},
		{"not encoded", wav, nil, SoundStatusNotEncoded, "s.idsp (Not yet encoded)"},
		{"bin only", bin, nil, SoundStatusUndecodable, "s.idsp (Could not decode)"},
		{"encoded only", nil, []byte("IDSP"), SoundStatusUndecodable, "s.idsp (Could not decode)"},
		{"empty", nil, nil, SoundStatusEmpty, "s.idsp (Empty)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSound("s")
			s.Audio = tt.audio
			s.Encoded = tt.encoded

			if got := s.Status(); got != tt.expected {
				t.Errorf("Status() = %s, expected %s", got, tt.expected)
			}
			if got := s.Label(); got != tt.label {
				t.Errorf("Label() = %q, expected %q", got, tt.label)
			}
		})
	}
}

func TestSound_LoopSeconds(t *testing.T) {
	s := NewSound("s")
	if _, _, ok := s.LoopSeconds(); ok {
		t.Error("no loop expected")
	}

	s.Loop = &LoopPoints{Start: 6000, End: 24000}
	start, end, ok := s.LoopSeconds()
	if !ok || start != 0.5 || end != 2 {
		t.Errorf("LoopSeconds() = %v, %v, %v", start, end, ok)
	}
}

func TestLoopPoints(t *testing.T) {
	tests := []struct {
		loop  LoopPoints
		valid bool
	}{
		{LoopPoints{0, 1}, true},
		{LoopPoints{10, 10}, false},
		{LoopPoints{20, 10}, false},
		{LoopPoints{-1, 10}, false},
	}

	for _, tt := range tests {
		if got := tt.loop.Valid(); got != tt.valid {
			t.Errorf("%s.Valid() = %v, expected %v", tt.loop, got, tt.valid)
		}
	}
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", "   ", "a/b", `a\b`, "a\x00b"} {
		if err := ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q) should fail", bad)
		}
	}
	if err := ValidateName("bgm_stage_01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
