package codec

import "time"

// PCM is interleaved signed 16-bit audio
type PCM struct {
	Samples    []int16
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames
func (p *PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Truncate keeps at most frames sample frames
func (p *PCM) Truncate(frames int) {
	if frames < 0 {
		frames = 0
	}
	if frames < p.Frames() {
		p.Samples = p.Samples[:frames*p.Channels]
	}
}

// Duration returns the playing time
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// Clone returns a deep copy
func (p *PCM) Clone() *PCM {
	out := *p
	out.Samples = append([]int16(nil), p.Samples...)
	return &out
}

func floatToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767.0)
}

// scaleToInt16 converts an integer sample of the given bit depth to 16 bits
func scaleToInt16(v, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		return int16((v - 128) << 8)
	case 16:
		return int16(v)
	case 24:
		return int16(v >> 8)
	case 32:
		return int16(v >> 16)
	default:
		return int16(v)
	}
}
