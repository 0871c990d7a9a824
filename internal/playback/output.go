package playback

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DeviceSampleRate is the rate the output device is opened at
const DeviceSampleRate beep.SampleRate = 44100

// deviceBuffer is the speaker buffer length
const deviceBuffer = 100 * time.Millisecond

// Output is an audio device that mixes streamers
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// SpeakerOutput plays through the default device
type SpeakerOutput struct{}

// Init opens the device
func (SpeakerOutput) Init(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(deviceBuffer))
}

func (SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (SpeakerOutput) Clear()               { speaker.Clear() }
func (SpeakerOutput) Lock()                { speaker.Lock() }
func (SpeakerOutput) Unlock()              { speaker.Unlock() }
