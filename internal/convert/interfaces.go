package convert

import (
	"context"

	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// Converter defines the interface for the conversion service.
type Converter interface {
	// Decode turns an IDSP/LOPUS file into WAV bytes
	Decode(ctx context.Context, src string) ([]byte, error)

	// Encode turns a WAV file into the format named by dest's extension
	Encode(ctx context.Context, srcWAV, dest string, loop *model.LoopPoints) ([]byte, error)

	// LoopPoints reads loop metadata; it is absent on any failure
	LoopPoints(ctx context.Context, src string) (*model.LoopPoints, bool)

	// Info returns vgmstream metadata for src
	Info(ctx context.Context, src string) (*platform.VgmstreamInfo, error)
}

// Runner executes an external program and collects its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}
