package playback

import (
	"fmt"

	"github.com/ytget/nus3audio-editor/internal/codec"
)

const int16Scale = 1 << 15

// pcmStreamer streams 16-bit PCM as beep stereo samples. Mono is copied to
// both sides; channels past the second are dropped.
type pcmStreamer struct {
	pcm *codec.PCM
	pos int
}

func newPCMStreamer(pcm *codec.PCM) *pcmStreamer {
	return &pcmStreamer{pcm: pcm}
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	frames := s.pcm.Frames()
	if s.pos >= frames {
		return 0, false
	}

	ch := s.pcm.Channels
	for n < len(samples) && s.pos < frames {
		base := s.pos * ch
		left := float64(s.pcm.Samples[base]) / int16Scale
		right := left
		if ch > 1 {
			right = float64(s.pcm.Samples[base+1]) / int16Scale
		}
		samples[n] = [2]float64{left, right}
		n++
		s.pos++
	}
	return n, true
}

func (s *pcmStreamer) Err() error {
	return nil
}

func (s *pcmStreamer) Len() int {
	return s.pcm.Frames()
}

func (s *pcmStreamer) Position() int {
	return s.pos
}

func (s *pcmStreamer) Seek(p int) error {
	if p < 0 || p > s.pcm.Frames() {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, s.pcm.Frames())
	}
	s.pos = p
	return nil
}
