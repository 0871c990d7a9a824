package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/convert"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// Naming constants
const (
	NewSoundPrefix  = "new_sound_"
	UntitledBank    = "untitled"
	WAVExtension    = "wav"
	cacheNameFilter = `/\:*?"<>|`
)

// Editor errors
var (
	ErrBusy              = errors.New("another operation is still running")
	ErrNoPath            = errors.New("no path has been set to save")
	ErrNoSelection       = errors.New("nothing is selected")
	ErrEmptyAudio        = errors.New("audio of selected item is empty")
	ErrBinMismatch       = errors.New("item is not in bin format, but imported file is")
	ErrUnsupportedExport = errors.New("unsupported export format")
)

// Snapshot is a read-only view of the bank for display
type Snapshot struct {
	Name     string
	Path     string
	Modified bool
	Sounds   []SoundInfo
}

// SoundInfo describes one sound for display
type SoundInfo struct {
	ID              string
	Name            string
	Label           string
	Extension       nus3.Extension
	Status          model.SoundStatus
	Loop            *model.LoopPoints
	SampleRate      int
	Channels        int
	LengthInSamples int
	EncodedSize     int
}

// Service edits one bank at a time
type Service struct {
	bank      *model.Bank
	bankMutex sync.RWMutex

	// opMutex is held for the whole of any mutating operation
	opMutex sync.Mutex

	converter convert.Converter
	cache     *platform.CacheDir
	onUpdate  func()
}

// NewService creates an editor over an empty bank
func NewService(converter convert.Converter, cache *platform.CacheDir) *Service {
	return &Service{
		bank:      model.NewBank(),
		converter: converter,
		cache:     cache,
	}
}

// SetUpdateCallback sets the callback invoked after every change
func (s *Service) SetUpdateCallback(callback func()) {
	s.onUpdate = callback
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

// begin takes the operation lock without waiting
func (s *Service) begin() error {
	if !s.opMutex.TryLock() {
		return ErrBusy
	}
	return nil
}

func (s *Service) end() {
	s.opMutex.Unlock()
}

// Snapshot returns the current bank for display
func (s *Service) Snapshot() Snapshot {
	s.bankMutex.RLock()
	defer s.bankMutex.RUnlock()

	snap := Snapshot{
		Name:     s.bank.Name,
		Path:     s.bank.Path,
		Modified: s.bank.Modified,
		Sounds:   make([]SoundInfo, 0, s.bank.Len()),
	}
	for _, snd := range s.bank.Sounds {
		info := SoundInfo{
			ID:              snd.ID,
			Name:            snd.Name,
			Label:           snd.Label(),
			Extension:       snd.Extension,
			Status:          snd.Status(),
			SampleRate:      snd.SampleRate,
			Channels:        snd.Channels,
			LengthInSamples: snd.LengthInSamples,
			EncodedSize:     len(snd.Encoded),
		}
		if snd.Loop != nil {
			loop := *snd.Loop
			info.Loop = &loop
		}
		snap.Sounds = append(snap.Sounds, info)
	}
	return snap
}

// Sound returns a copy of the sound at index
func (s *Service) Sound(index int) (model.Sound, bool) {
	s.bankMutex.RLock()
	defer s.bankMutex.RUnlock()

	snd := s.bank.Get(index)
	if snd == nil {
		return model.Sound{}, false
	}
	return *snd, true
}

// Modified reports unsaved changes
func (s *Service) Modified() bool {
	s.bankMutex.RLock()
	defer s.bankMutex.RUnlock()
	return s.bank.Modified
}

// New clears the bank
func (s *Service) New() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.bankMutex.Lock()
	s.bank.Clear()
	s.bankMutex.Unlock()

	s.notifyUpdate()
	return nil
}

// Open replaces the bank with the container at path. Every payload is
// staged in the cache and decoded; payloads that fail to decode are kept
// as binary data.
func (s *Service) Open(ctx context.Context, path string) (*Report, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	file, err := nus3.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	bankName := filepath.Base(path)
	report := &Report{}
	sounds := make([]*model.Sound, 0, len(file.Files))

	for i, af := range file.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snd := model.NewSound(af.Name)
		if ext, err := nus3.GuessEncodedExtension(af.Data); err == nil {
			snd.Extension = ext
		}

		data, err := s.decodeEncoded(ctx, bankName, af.Name, af.Data)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Error("could not stage sound", "sound", af.Name, "error", err)
			report.add(i, af.Name, err)
			snd.Encoded = af.Data
		} else {
			data.apply(snd)
		}

		sounds = append(sounds, snd)
	}

	s.bankMutex.Lock()
	s.bank.Clear()
	s.bank.SetPath(path)
	s.bank.Sounds = sounds
	s.bankMutex.Unlock()

	slog.Info("opened bank", "path", path, "sounds", len(sounds), "failures", len(report.Errors))
	s.notifyUpdate()
	return report, nil
}

// Save writes the bank to path, or to the bank's own path when path is
// empty. Sounds that cannot be encoded are stored empty and reported.
func (s *Service) Save(ctx context.Context, path string) (*Report, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.bankMutex.RLock()
	if path == "" {
		path = s.bank.Path
	}
	sounds := append([]*model.Sound(nil), s.bank.Sounds...)
	s.bankMutex.RUnlock()

	if path == "" {
		return nil, ErrNoPath
	}
	path = platform.WithExtension(path, strings.TrimPrefix(nus3.FileExtension, "."))
	bankName := filepath.Base(path)

	report := &Report{}
	file := nus3.New()
	for i, snd := range sounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.bankMutex.RLock()
		name, ext := snd.Name, snd.Extension
		s.bankMutex.RUnlock()

		data, err := s.encodedFor(ctx, bankName, snd, ext)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Warn("storing sound empty", "sound", name, "error", err)
			report.add(i, name, err)
			data = nil
		}

		file.Files = append(file.Files, nus3.AudioFile{
			ID:   uint32(i),
			Name: name,
			Data: data,
		})
	}

	slog.Info("writing bank", "path", path, "size", platform.HumanSize(file.Size()))
	if err := platform.WriteFile(path, file.Bytes()); err != nil {
		s.notifyUpdate()
		return report, err
	}

	s.bankMutex.Lock()
	s.bank.SetPath(path)
	s.bank.Modified = false
	s.bankMutex.Unlock()

	s.notifyUpdate()
	return report, nil
}

// EncodedFor returns the sound's bytes in format ext, encoding if needed
func (s *Service) EncodedFor(ctx context.Context, index int, ext nus3.Extension) ([]byte, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	snd, bankName, err := s.soundAt(index)
	if err != nil {
		return nil, err
	}

	data, err := s.encodedFor(ctx, bankName, snd, ext)
	s.notifyUpdate()
	return data, err
}

// encodedFor returns cached bytes when they match ext; otherwise the audio
// is written to the cache as WAV, truncated at the loop end, and encoded
// with VGAudioCli. The result is cached when ext is the sound's own format.
func (s *Service) encodedFor(ctx context.Context, bankName string, snd *model.Sound, ext nus3.Extension) ([]byte, error) {
	s.bankMutex.RLock()
	name, own, audio, encoded := snd.Name, snd.Extension, snd.Audio, snd.Encoded
	var loop *model.LoopPoints
	if snd.Loop != nil {
		l := *snd.Loop
		loop = &l
	}
	s.bankMutex.RUnlock()

	if encoded != nil && ext == own {
		return encoded, nil
	}
	if audio == nil {
		return nil, ErrEmptyAudio
	}
	if audio.Encoding == codec.EncodingBin {
		if own != nus3.ExtBin {
			return nil, ErrBinMismatch
		}
		return audio.Bytes, nil
	}
	if ext == nus3.ExtBin {
		return audio.Encode(codec.EncodingBin)
	}

	pcm, err := audio.Decode()
	if err != nil {
		return nil, fmt.Errorf("error decoding audio: %w", err)
	}
	if loop != nil && loop.End > 0 {
		pcm.Truncate(loop.End)
	}
	if ext == nus3.ExtLOPUS {
		rate := pcm.SampleRate
		pcm = codec.PrepareForLopus(pcm)
		loop = scaleLoop(loop, rate, pcm.SampleRate)
	}
	wav, err := codec.EncodeWAV(pcm)
	if err != nil {
		return nil, fmt.Errorf("error decoding audio: %w", err)
	}

	dir, err := s.cache.Subdir(bankName)
	if err != nil {
		return nil, fmt.Errorf("error creating cache subdirectory: %w", err)
	}
	base := filepath.Join(dir, cacheFileName(name))
	src := base + "." + WAVExtension
	dest := base + "." + string(ext)
	if err := os.WriteFile(src, wav, platform.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("error writing source file %s: %w", src, err)
	}

	data, err := s.converter.Encode(ctx, src, dest, loop)
	if err != nil {
		return nil, err
	}
	slog.Debug("encoded sound", "sound", name, "format", ext, "size", platform.HumanSize(len(data)))

	if ext == own {
		s.bankMutex.Lock()
		if snd.Audio == audio && snd.Extension == own {
			snd.Encoded = data
		}
		s.bankMutex.Unlock()
	}
	return data, nil
}

// ExportSound writes one sound to target. The format follows target's
// extension; without one, WAV (or bin for binary sounds) is appended.
// The final path is returned.
func (s *Service) ExportSound(ctx context.Context, index int, target string) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	defer s.end()

	snd, bankName, err := s.soundAt(index)
	if err != nil {
		return "", err
	}

	s.bankMutex.RLock()
	own, audio, encoded := snd.Extension, snd.Audio, snd.Encoded
	s.bankMutex.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(target), "."))
	if ext == "" {
		ext = WAVExtension
		if own == nus3.ExtBin {
			ext = string(nus3.ExtBin)
		}
		target += "." + ext
	}

	var data []byte
	switch ext {
	case WAVExtension:
		if audio == nil {
			return "", ErrEmptyAudio
		}
		data, err = audio.ToWAV(0)
	case string(nus3.ExtIDSP), string(nus3.ExtLOPUS):
		data, err = s.encodedFor(ctx, bankName, snd, nus3.Extension(ext))
	case string(nus3.ExtBin):
		switch {
		case encoded != nil:
			data = encoded
		case audio != nil:
			data = audio.Bytes
		default:
			err = ErrEmptyAudio
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedExport, ext)
	}
	s.notifyUpdate()
	if err != nil {
		return "", err
	}

	slog.Info("exporting sound", "path", target)
	if err := platform.WriteFile(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// ExportAll writes every decodable sound to dir as <name>.wav. Sounds that
// cannot be decoded are skipped and returned; a write failure stops the export.
func (s *Service) ExportAll(ctx context.Context, dir string) ([]SkippedSound, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.bankMutex.RLock()
	type item struct {
		name  string
		audio *codec.EncodedFile
		empty bool
	}
	items := make([]item, 0, s.bank.Len())
	for _, snd := range s.bank.Sounds {
		items = append(items, item{name: snd.Name, audio: snd.Audio, empty: snd.Encoded == nil})
	}
	s.bankMutex.RUnlock()

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", dir, err)
	}

	var skipped []SkippedSound
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		if it.audio == nil {
			err := ErrEmptyAudio
			if !it.empty {
				err = codec.ErrDecodeBin
			}
			skipped = append(skipped, SkippedSound{Name: it.name, Err: err})
			continue
		}

		wav, err := it.audio.ToWAV(0)
		if err != nil {
			skipped = append(skipped, SkippedSound{Name: it.name, Err: err})
			continue
		}

		target := filepath.Join(dir, cacheFileName(it.name)+"."+WAVExtension)
		if err := platform.WriteFile(target, wav); err != nil {
			return skipped, fmt.Errorf("error writing file: %w", err)
		}
	}

	return skipped, nil
}

// AddSound appends an empty idsp sound and returns its index
func (s *Service) AddSound() (int, error) {
	if err := s.begin(); err != nil {
		return -1, err
	}
	defer s.end()

	s.bankMutex.Lock()
	n := s.bank.Len() + 1
	name := fmt.Sprintf("%s%d", NewSoundPrefix, n)
	for s.hasName(name) {
		n++
		name = fmt.Sprintf("%s%d", NewSoundPrefix, n)
	}
	index := s.bank.Add(model.NewSound(name))
	s.bankMutex.Unlock()

	s.notifyUpdate()
	return index, nil
}

// hasName must be called with bankMutex held
func (s *Service) hasName(name string) bool {
	for _, snd := range s.bank.Sounds {
		if snd.Name == name {
			return true
		}
	}
	return false
}

// RemoveSound deletes the sound at index
func (s *Service) RemoveSound(index int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.bankMutex.Lock()
	removed := s.bank.Remove(index)
	s.bankMutex.Unlock()

	if removed == nil {
		return ErrNoSelection
	}
	s.notifyUpdate()
	return nil
}

// ReplaceSound swaps the sound's audio for the file at source. IDSP and
// LOPUS files are decoded through the converter; anything else is attached
// as-is and encoded on save.
func (s *Service) ReplaceSound(ctx context.Context, index int, source string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	snd, bankName, err := s.soundAt(index)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	s.bankMutex.RLock()
	name := snd.Name
	s.bankMutex.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
	var data decoded
	switch nus3.Extension(ext) {
	case nus3.ExtIDSP, nus3.ExtLOPUS:
		data, err = s.decodeEncoded(ctx, bankName, name, raw)
		if err != nil {
			return fmt.Errorf("could not decode file as audio: %w", err)
		}
	default:
		data = attachAudio(raw, codec.EncodingFromExtension(ext))
	}

	if loop, ok := s.converter.LoopPoints(ctx, source); ok {
		data.loop = loop
	}

	s.bankMutex.Lock()
	data.apply(snd)
	s.bank.Modified = true
	s.bankMutex.Unlock()

	s.notifyUpdate()
	return nil
}

// Properties are the user-editable fields of a sound
type Properties struct {
	Name      string
	Extension nus3.Extension
	Loop      *model.LoopPoints
}

// Validate checks the properties can be applied
func (p Properties) Validate() error {
	if err := model.ValidateName(p.Name); err != nil {
		return err
	}
	if _, ok := nus3.ParseExtension(string(p.Extension)); !ok {
		return fmt.Errorf("unknown format %q", p.Extension)
	}
	return ValidateLoop(p.Extension, p.Loop)
}

// ValidateLoop checks loop can be stored with a sound in format ext.
// A nil loop is always valid.
func ValidateLoop(ext nus3.Extension, loop *model.LoopPoints) error {
	if loop == nil {
		return nil
	}
	if ext == nus3.ExtBin {
		return errors.New("binary sounds cannot loop")
	}
	if loop.Start < 0 || loop.End < 0 {
		return errors.New("loop points must be positive")
	}
	if loop.Start >= loop.End {
		return errors.New("loop beginning must be placed before loop end")
	}
	return nil
}

// UpdateProperties applies props to the sound at index and reports whether
// anything changed. A new format or loop invalidates the encoded bytes.
func (s *Service) UpdateProperties(index int, props Properties) (bool, error) {
	if err := props.Validate(); err != nil {
		return false, err
	}
	if err := s.begin(); err != nil {
		return false, err
	}
	defer s.end()

	s.bankMutex.Lock()
	snd := s.bank.Get(index)
	if snd == nil {
		s.bankMutex.Unlock()
		return false, ErrNoSelection
	}

	sameLoop := loopEqual(snd.Loop, props.Loop)
	if snd.Name == props.Name && snd.Extension == props.Extension && sameLoop {
		s.bankMutex.Unlock()
		return false, nil
	}

	if snd.Extension != props.Extension || !sameLoop {
		snd.Encoded = nil
	}
	snd.Name = props.Name
	snd.Extension = props.Extension
	snd.Loop = nil
	if props.Loop != nil {
		loop := *props.Loop
		snd.Loop = &loop
	}
	s.bank.Modified = true
	s.bankMutex.Unlock()

	s.notifyUpdate()
	return true, nil
}

// PlaybackAudio decodes the sound at index for playback
func (s *Service) PlaybackAudio(index int) (*codec.PCM, *model.LoopPoints, error) {
	s.bankMutex.RLock()
	snd := s.bank.Get(index)
	if snd == nil {
		s.bankMutex.RUnlock()
		return nil, nil, ErrNoSelection
	}
	audio := snd.Audio
	var loop *model.LoopPoints
	if snd.Loop != nil {
		l := *snd.Loop
		loop = &l
	}
	s.bankMutex.RUnlock()

	if audio == nil {
		return nil, nil, ErrEmptyAudio
	}
	pcm, err := audio.Decode()
	if err != nil {
		return nil, nil, err
	}
	return pcm, loop, nil
}

// soundAt returns the sound at index and the cache name of the bank
func (s *Service) soundAt(index int) (*model.Sound, string, error) {
	s.bankMutex.RLock()
	defer s.bankMutex.RUnlock()

	snd := s.bank.Get(index)
	if snd == nil {
		return nil, "", ErrNoSelection
	}
	return snd, s.cacheBankName(), nil
}

// cacheBankName must be called with bankMutex held
func (s *Service) cacheBankName() string {
	if s.bank.Path == "" {
		return UntitledBank
	}
	return filepath.Base(s.bank.Path)
}

// scaleLoop moves loop points to a new sample rate
func scaleLoop(loop *model.LoopPoints, from, to int) *model.LoopPoints {
	if loop == nil || from <= 0 || from == to {
		return loop
	}
	return &model.LoopPoints{
		Start: int(int64(loop.Start) * int64(to) / int64(from)),
		End:   int(int64(loop.End) * int64(to) / int64(from)),
	}
}

func loopEqual(a, b *model.LoopPoints) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// cacheFileName makes a sound name safe to use as a file name
func cacheFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(cacheNameFilter, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if strings.Trim(name, ". ") == "" {
		return "sound"
	}
	return name
}

var _ Editor = (*Service)(nil)
