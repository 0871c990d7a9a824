package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavPCMFormat = 1
	wavBitDepth  = 16
)

// WAVInfo describes a WAV stream
type WAVInfo struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Frames     int
}

// DecodeWAV decodes integer PCM WAV data to 16-bit samples
func DecodeWAV(data []byte) (*PCM, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedWAV, bitDepth)
	}

	pcm := &PCM{
		Samples:    make([]int16, len(buf.Data)),
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
	}
	for i, v := range buf.Data {
		pcm.Samples[i] = scaleToInt16(v, bitDepth)
	}
	if pcm.Channels <= 0 {
		return nil, fmt.Errorf("%w: no channels", ErrUnsupportedWAV)
	}

	return pcm, nil
}

// ReadWAVInfo returns the format and length of WAV data
func ReadWAVInfo(data []byte) (WAVInfo, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return WAVInfo{}, fmt.Errorf("failed to read WAV: %w", err)
	}

	info := WAVInfo{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	if info.Channels > 0 {
		info.Frames = len(buf.Data) / info.Channels
	}
	return info, nil
}

// EncodeWAV writes PCM as a 16-bit integer WAV file
func EncodeWAV(pcm *PCM) ([]byte, error) {
	if pcm == nil || pcm.Channels <= 0 || pcm.SampleRate <= 0 {
		return nil, errors.New("invalid PCM format")
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, pcm.SampleRate, wavBitDepth, pcm.Channels, wavPCMFormat)

	data := make([]int, len(pcm.Samples))
	for i, s := range pcm.Samples {
		data[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: pcm.Channels,
			SampleRate:  pcm.SampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish WAV: %w", err)
	}

	return ws.buf, nil
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back
// to patch chunk sizes on Close
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		if end > cap(w.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, w.buf)
			w.buf = grown
		} else {
			w.buf = w.buf[:end]
		}
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
