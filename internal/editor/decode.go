package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// decoded is the audio state produced by loading a payload or file
type decoded struct {
	extension  nus3.Extension
	audio      *codec.EncodedFile
	encoded    []byte
	loop       *model.LoopPoints
	sampleRate int
	channels   int
	length     int
}

// apply copies the state into snd; the caller holds the bank lock when snd is shared
func (d decoded) apply(snd *model.Sound) {
	if d.extension != "" {
		snd.Extension = d.extension
	}
	snd.Audio = d.audio
	snd.Encoded = d.encoded
	snd.Loop = d.loop
	if d.sampleRate > 0 {
		snd.SampleRate = d.sampleRate
	}
	if d.channels > 0 {
		snd.Channels = d.channels
	}
	snd.LengthInSamples = d.length
}

// binaryPayload keeps a payload that could not be decoded as opaque data
func binaryPayload(payload []byte) decoded {
	return decoded{
		extension: nus3.ExtBin,
		audio:     codec.NewEncodedFile(payload, codec.EncodingBin),
	}
}

// attachAudio wraps a user file; it is encoded later, on save or export
func attachAudio(raw []byte, encoding codec.EncodingType) decoded {
	d := decoded{audio: codec.NewEncodedFile(raw, encoding)}
	if !encoding.CanBeDecoded() {
		return d
	}

	pcm, err := d.audio.Decode()
	if err != nil {
		slog.Warn("attached audio could not be decoded", "encoding", encoding, "error", err)
		return d
	}
	d.sampleRate = pcm.SampleRate
	d.channels = pcm.Channels
	d.length = pcm.Frames()
	return d
}

// decodeEncoded stages an IDSP/LOPUS payload in the bank's cache directory
// and decodes it to WAV. Decode failures are not errors: the payload is
// kept as binary data. Only cache I/O failures are returned.
func (s *Service) decodeEncoded(ctx context.Context, bankName, name string, payload []byte) (decoded, error) {
	ext, err := nus3.GuessEncodedExtension(payload)
	if err != nil {
		slog.Warn("payload kept as binary data", "sound", name, "error", err)
		return binaryPayload(payload), nil
	}

	dir, err := s.cache.Subdir(bankName)
	if err != nil {
		return decoded{}, fmt.Errorf("error creating cache subdirectory: %w", err)
	}
	src := filepath.Join(dir, cacheFileName(name)+"."+string(ext))
	if err := os.WriteFile(src, payload, platform.DefaultFilePermissions); err != nil {
		return decoded{}, fmt.Errorf("error writing source file %s: %w", src, err)
	}

	wav, err := s.converter.Decode(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return decoded{}, ctx.Err()
		}
		slog.Warn("error decoding file, its bytes have been loaded directly", "sound", name, "error", err)
		return binaryPayload(payload), nil
	}

	info, err := codec.ReadWAVInfo(wav)
	if err == nil && info.BitDepth != 16 {
		err = fmt.Errorf("wrong bit depth found: %d", info.BitDepth)
	}
	if err != nil {
		slog.Warn("error reading returned wav, its bytes have been loaded directly", "sound", name, "error", err)
		return binaryPayload(payload), nil
	}

	loop, _ := s.converter.LoopPoints(ctx, src)

	return decoded{
		extension:  ext,
		audio:      codec.NewEncodedFile(wav, codec.EncodingWAV),
		encoded:    payload,
		loop:       loop,
		sampleRate: info.SampleRate,
		channels:   info.Channels,
		length:     info.Frames,
	}, nil
}
