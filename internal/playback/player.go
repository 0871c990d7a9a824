package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/model"
)

// resampleQuality is passed to beep.Resample
const resampleQuality = 4

// ErrNoChannels is returned for PCM without channels
var ErrNoChannels = errors.New("audio has no channels")

// Source loads the audio to start playing
type Source func() (*codec.PCM, *model.LoopPoints, error)

// Status is a snapshot of the player
type Status struct {
	State    model.PlaybackState
	Position time.Duration
	Duration time.Duration
}

// Player plays one stream at a time. Every method may be called from any
// goroutine; calls are serialized.
type Player struct {
	mu          sync.Mutex
	out         Output
	initialized bool

	ctrl     *beep.Ctrl
	position beep.StreamSeeker
	rate     beep.SampleRate
	length   int

	// ended is set from the audio thread when the stream runs out
	ended atomic.Bool
}

// NewPlayer creates a player on out; the device is opened on first play
func NewPlayer(out Output) *Player {
	if out == nil {
		out = SpeakerOutput{}
	}
	return &Player{out: out}
}

// Toggle pauses or resumes the loaded stream. When nothing is loaded,
// source is played from the start.
func (p *Player) Toggle(source Source) (model.PlaybackState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reapLocked()
	if p.ctrl != nil {
		p.out.Lock()
		p.ctrl.Paused = !p.ctrl.Paused
		paused := p.ctrl.Paused
		p.out.Unlock()

		if paused {
			return model.PlaybackPaused, nil
		}
		return model.PlaybackPlaying, nil
	}

	pcm, loop, err := source()
	if err != nil {
		return model.PlaybackStopped, err
	}
	if err := p.startLocked(pcm, loop); err != nil {
		return model.PlaybackStopped, err
	}
	return model.PlaybackPlaying, nil
}

// Stop ends playback
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Status reports the current state and position
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reapLocked()
	if p.ctrl == nil {
		return Status{State: model.PlaybackStopped}
	}

	p.out.Lock()
	pos := p.position.Position()
	paused := p.ctrl.Paused
	p.out.Unlock()

	st := Status{
		State:    model.PlaybackPlaying,
		Position: p.rate.D(pos),
		Duration: p.rate.D(p.length),
	}
	if paused {
		st.State = model.PlaybackPaused
	}
	return st
}

func (p *Player) startLocked(pcm *codec.PCM, loop *model.LoopPoints) error {
	if pcm == nil || pcm.Channels <= 0 {
		return ErrNoChannels
	}
	if !p.initialized {
		if err := p.out.Init(DeviceSampleRate); err != nil {
			return fmt.Errorf("could not open audio device: %w", err)
		}
		p.initialized = true
	}

	var stream beep.StreamSeeker = newPCMStreamer(pcm)
	if loop != nil && loop.Valid() && loop.End <= stream.Len() {
		looped, err := beep.Loop2(stream, beep.LoopTimes(-1), beep.LoopStart(loop.Start), beep.LoopEnd(loop.End))
		if err != nil {
			return fmt.Errorf("could not loop audio: %w", err)
		}
		stream = looped
	}

	rate := beep.SampleRate(pcm.SampleRate)
	var out beep.Streamer = stream
	if rate != DeviceSampleRate {
		out = beep.Resample(resampleQuality, rate, DeviceSampleRate, stream)
	}

	p.stopLocked()
	p.ended.Store(false)
	p.ctrl = &beep.Ctrl{Streamer: beep.Seq(out, beep.Callback(func() {
		p.ended.Store(true)
	}))}
	p.position = stream
	p.rate = rate
	p.length = pcm.Frames()

	slog.Debug("starting playback", "frames", p.length, "rate", pcm.SampleRate, "loop", loop)
	p.out.Play(p.ctrl)
	return nil
}

// reapLocked forgets a stream that played to the end
func (p *Player) reapLocked() {
	if p.ctrl != nil && p.ended.Load() {
		p.stopLocked()
	}
}

func (p *Player) stopLocked() {
	if p.ctrl == nil {
		return
	}
	p.out.Clear()
	p.ctrl = nil
	p.position = nil
	p.length = 0
}
