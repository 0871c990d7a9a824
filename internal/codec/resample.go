package codec

import (
	"math"

	"github.com/gopxl/beep/v2"
)

// Sample rates accepted by the lopus encoder
var lopusRates = []int{8000, 12000, 16000, 24000}

const lopusMaxRate = 48000

// LopusSampleRate snaps a sample rate up to the nearest rate lopus supports
func LopusSampleRate(rate int) int {
	for _, r := range lopusRates {
		if rate <= r {
			return r
		}
	}
	return lopusMaxRate
}

// Resample quality passed to beep; values above 6 are meant for offline use
const resampleQuality = 8

// Resample converts PCM to rate. Channels are streamed through beep's
// resampler in pairs. When the rate drops, a low-pass filter at the new
// Nyquist frequency runs first so nothing above it folds back.
func Resample(pcm *PCM, rate int) *PCM {
	if rate <= 0 || pcm.SampleRate == rate || pcm.Frames() == 0 {
		out := pcm.Clone()
		if rate > 0 {
			out.SampleRate = rate
		}
		return out
	}

	ch := pcm.Channels
	inFrames := pcm.Frames()
	outFrames := max(int(int64(inFrames)*int64(rate)/int64(pcm.SampleRate)), 1)

	out := &PCM{
		Samples:    make([]int16, outFrames*ch),
		Channels:   ch,
		SampleRate: rate,
	}

	var taps []float64
	if rate < pcm.SampleRate {
		taps = lowPassTaps(float64(rate)/float64(pcm.SampleRate), pcm.SampleRate/rate+1)
	}

	for c := 0; c < ch; c += 2 {
		right := min(c+1, ch-1)
		frames := channelPair(pcm, c, right)
		if taps != nil {
			frames = convolve(frames, taps)
		}

		src := beep.SampleRate(pcm.SampleRate)
		resampled := drain(beep.Resample(resampleQuality, src, beep.SampleRate(rate), framesStreamer(frames)), outFrames)

		for i, f := range resampled {
			out.Samples[i*ch+c] = sampleToInt16(f[0])
			if right != c {
				out.Samples[i*ch+right] = sampleToInt16(f[1])
			}
		}
	}

	return out
}

// lowPassTaps builds a Blackman-windowed sinc filter. ratio is the new rate
// over the old one; the tap count grows with the decimation factor so the
// transition band stays below the new Nyquist frequency.
func lowPassTaps(ratio float64, factor int) []float64 {
	n := 64*factor + 1
	cutoff := 0.45 * ratio
	mid := float64(n-1) / 2

	taps := make([]float64, n)
	sum := 0.0
	for i := range taps {
		x := float64(i) - mid
		sinc := 2 * cutoff
		if x != 0 {
			sinc = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		phase := 2 * math.Pi * float64(i) / float64(n-1)
		window := 0.42 - 0.5*math.Cos(phase) + 0.08*math.Cos(2*phase)
		taps[i] = sinc * window
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// convolve applies a centered FIR filter so the output stays aligned with
// the input; samples outside the signal count as silence
func convolve(in [][2]float64, taps []float64) [][2]float64 {
	mid := len(taps) / 2
	out := make([][2]float64, len(in))
	for i := range out {
		var acc [2]float64
		for k, h := range taps {
			j := i + k - mid
			if j < 0 || j >= len(in) {
				continue
			}
			acc[0] += h * in[j][0]
			acc[1] += h * in[j][1]
		}
		out[i] = acc
	}
	return out
}

func channelPair(pcm *PCM, left, right int) [][2]float64 {
	ch := pcm.Channels
	frames := make([][2]float64, pcm.Frames())
	for i := range frames {
		frames[i] = [2]float64{
			float64(pcm.Samples[i*ch+left]) / 32768,
			float64(pcm.Samples[i*ch+right]) / 32768,
		}
	}
	return frames
}

func framesStreamer(frames [][2]float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if len(frames) == 0 {
			return 0, false
		}
		n := copy(samples, frames)
		frames = frames[n:]
		return n, true
	})
}

// drain reads exactly n frames from s, padding with silence if it ends early
func drain(s beep.Streamer, n int) [][2]float64 {
	out := make([][2]float64, n)
	for filled := 0; filled < n; {
		k, ok := s.Stream(out[filled:])
		filled += k
		if !ok {
			break
		}
	}
	return out
}

func sampleToInt16(x float64) int16 {
	v := math.Round(x * 32768)
	return int16(max(min(v, math.MaxInt16), math.MinInt16))
}

// Downmix reduces PCM to at most channels channels by averaging the extras
// into the kept ones
func Downmix(pcm *PCM, channels int) *PCM {
	if channels <= 0 || pcm.Channels <= channels {
		return pcm.Clone()
	}

	frames := pcm.Frames()
	out := &PCM{
		Samples:    make([]int16, frames*channels),
		Channels:   channels,
		SampleRate: pcm.SampleRate,
	}
	for f := 0; f < frames; f++ {
		in := pcm.Samples[f*pcm.Channels : (f+1)*pcm.Channels]
		for c := 0; c < channels; c++ {
			sum, n := 0, 0
			for src := c; src < len(in); src += channels {
				sum += int(in[src])
				n++
			}
			out.Samples[f*channels+c] = int16(sum / n)
		}
	}
	return out
}

// PrepareForLopus clamps PCM to mono or stereo at a lopus sample rate
func PrepareForLopus(pcm *PCM) *PCM {
	out := Downmix(pcm, 2)
	return Resample(out, LopusSampleRate(out.SampleRate))
}
