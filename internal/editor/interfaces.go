package editor

import (
	"context"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

// Editor defines the interface for the bank editing service.
type Editor interface {
	SetUpdateCallback(func())
	Snapshot() Snapshot
	Sound(index int) (model.Sound, bool)

	New() error
	Open(ctx context.Context, path string) (*Report, error)
	Save(ctx context.Context, path string) (*Report, error)

	// EncodedFor returns container-ready bytes for the sound in format ext
	EncodedFor(ctx context.Context, index int, ext nus3.Extension) ([]byte, error)
	ExportSound(ctx context.Context, index int, target string) (string, error)
	ExportAll(ctx context.Context, dir string) ([]SkippedSound, error)

	AddSound() (int, error)
	RemoveSound(index int) error
	ReplaceSound(ctx context.Context, index int, source string) error
	UpdateProperties(index int, props Properties) (bool, error)

	// PlaybackAudio decodes the sound for the player
	PlaybackAudio(index int) (*codec.PCM, *model.LoopPoints, error)
}
