package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2/flac"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// go-mp3 always produces interleaved stereo
const mp3Channels = 2

func decodeMP3(data []byte) (*PCM, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	return &PCM{
		Samples:    samples,
		Channels:   mp3Channels,
		SampleRate: dec.SampleRate(),
	}, nil
}

func decodeOgg(data []byte) (*PCM, error) {
	floats, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	samples := make([]int16, len(floats))
	for i, f := range floats {
		samples[i] = floatToInt16(f)
	}

	return &PCM{
		Samples:    samples,
		Channels:   format.Channels,
		SampleRate: format.SampleRate,
	}, nil
}

func decodeFLAC(data []byte) (*PCM, error) {
	stream, format, err := flac.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC: %w", err)
	}
	defer stream.Close()

	channels := format.NumChannels
	if channels > 2 {
		// beep folds everything into stereo frames
		channels = 2
	}
	if channels <= 0 {
		return nil, fmt.Errorf("failed to decode FLAC: no channels")
	}

	pcm := &PCM{
		Channels:   channels,
		SampleRate: int(format.SampleRate),
		Samples:    make([]int16, 0, stream.Len()*channels),
	}

	buf := make([][2]float64, 4096)
	for {
		n, ok := stream.Stream(buf)
		for _, frame := range buf[:n] {
			pcm.Samples = append(pcm.Samples, floatToInt16(float32(frame[0])))
			if channels == 2 {
				pcm.Samples = append(pcm.Samples, floatToInt16(float32(frame[1])))
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	return pcm, nil
}
