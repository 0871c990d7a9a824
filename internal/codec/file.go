package codec

import (
	"fmt"
	"sync"
)

// EncodedFile is audio held in its source encoding
type EncodedFile struct {
	Bytes    []byte
	Encoding EncodingType

	mu         sync.Mutex
	channels   int
	sampleRate int
}

// NewEncodedFile wraps data in the given encoding
func NewEncodedFile(data []byte, encoding EncodingType) *EncodedFile {
	return &EncodedFile{Bytes: data, Encoding: encoding}
}

// Decode returns the audio as 16-bit PCM
func (f *EncodedFile) Decode() (*PCM, error) {
	var (
		pcm *PCM
		err error
	)

	switch f.Encoding {
	case EncodingWAV:
		pcm, err = DecodeWAV(f.Bytes)
	case EncodingMP3:
		pcm, err = decodeMP3(f.Bytes)
	case EncodingOgg:
		pcm, err = decodeOgg(f.Bytes)
	case EncodingFLAC:
		pcm, err = decodeFLAC(f.Bytes)
	default:
		return nil, ErrDecodeBin
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.channels, f.sampleRate = pcm.Channels, pcm.SampleRate
	f.mu.Unlock()

	return pcm, nil
}

// Format returns channels and sample rate, decoding once if needed
func (f *EncodedFile) Format() (channels, sampleRate int, err error) {
	f.mu.Lock()
	channels, sampleRate = f.channels, f.sampleRate
	f.mu.Unlock()
	if channels > 0 {
		return channels, sampleRate, nil
	}

	pcm, err := f.Decode()
	if err != nil {
		return 0, 0, err
	}
	return pcm.Channels, pcm.SampleRate, nil
}

// ToWAV decodes the audio and writes it as 16-bit WAV. A positive
// endFrames truncates the output to that many frames.
func (f *EncodedFile) ToWAV(endFrames int) ([]byte, error) {
	if f.Encoding == EncodingWAV && endFrames <= 0 {
		if info, err := ReadWAVInfo(f.Bytes); err == nil && info.BitDepth == wavBitDepth {
			return f.Bytes, nil
		}
	}

	pcm, err := f.Decode()
	if err != nil {
		return nil, err
	}
	if endFrames > 0 {
		pcm.Truncate(endFrames)
	}
	return EncodeWAV(pcm)
}

// Encode converts the audio to the target encoding
func (f *EncodedFile) Encode(target EncodingType) ([]byte, error) {
	switch target {
	case EncodingBin:
		if f.Encoding == EncodingBin {
			return f.Bytes, nil
		}
		return nil, ErrEncodeBin
	case EncodingWAV:
		return f.ToWAV(0)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, target)
	}
}
