package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// Loop metadata cache settings
const (
	LoopCacheExpiration = 10 * time.Minute
	LoopCacheCleanup    = 20 * time.Minute
)

// ErrToolNotConfigured is returned when the needed tool has no path
var ErrToolNotConfigured = errors.New("tool path is empty")

// Service runs VGAudioCli and vgmstream
type Service struct {
	tools     func() Tools
	runner    Runner
	loopCache *cache.Cache
}

// NewService creates a conversion service. tools is read on every call so
// setting changes apply immediately.
func NewService(tools func() Tools, runner Runner) *Service {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{
		tools:     tools,
		runner:    runner,
		loopCache: cache.New(LoopCacheExpiration, LoopCacheCleanup),
	}
}

// Tools returns the current tool snapshot
func (s *Service) Tools() Tools {
	t := s.tools()
	if t.Timeout <= 0 {
		t.Timeout = DefaultToolTimeout
	}
	return t
}

// Decode turns src into WAV bytes with whichever tool is preferred and available
func (s *Service) Decode(ctx context.Context, src string) ([]byte, error) {
	tools := s.Tools()

	useVgmstream := tools.VgmstreamPath != ""
	if !tools.PreferVgmstream {
		useVgmstream = tools.VGAudioCliPath == ""
	}

	if useVgmstream {
		return s.vgmstreamDecode(ctx, tools, src)
	}
	return s.vgaudioCliDecode(ctx, tools, src, platform.WithExtension(src, "wav"))
}

// Encode converts srcWAV to the format named by dest's extension and returns
// the bytes VGAudioCli wrote
func (s *Service) Encode(ctx context.Context, srcWAV, dest string, loop *model.LoopPoints) ([]byte, error) {
	tools := s.Tools()
	if tools.VGAudioCliPath == "" {
		return nil, fmt.Errorf("%s: %w", ToolVGAudioCli, ErrToolNotConfigured)
	}

	name, args := BuildVGAudioCliCommand(tools, srcWAV, dest, loop, extensionOf(dest))
	if _, err := s.run(ctx, tools, ToolVGAudioCli, name, args); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("error reading destination file %s: %w", dest, err)
	}
	slog.Debug("got VGAudioCli output", "dest", dest, "size", platform.HumanSize(len(data)))
	return data, nil
}

// Info runs vgmstream in metadata mode
func (s *Service) Info(ctx context.Context, src string) (*platform.VgmstreamInfo, error) {
	tools := s.Tools()
	if tools.VgmstreamPath == "" {
		return nil, fmt.Errorf("%s: %w", ToolVgmstream, ErrToolNotConfigured)
	}

	name, args := BuildVgmstreamInfoCommand(tools, src)
	res, err := s.run(ctx, tools, ToolVgmstream, name, args)
	if err != nil {
		return nil, err
	}
	return platform.ParseVgmstreamInfo(res.Stdout)
}

// LoopPoints returns the loop stored in src's metadata. Results are cached
// by content so re-reading the same payload skips vgmstream.
func (s *Service) LoopPoints(ctx context.Context, src string) (*model.LoopPoints, bool) {
	data, err := os.ReadFile(src)
	if err != nil {
		slog.Debug("loop points unavailable", "src", src, "error", err)
		return nil, false
	}
	key := strconv.FormatUint(xxhash.Sum64(data), 16)

	if cached, found := s.loopCache.Get(key); found {
		loop, _ := cached.(*model.LoopPoints)
		return copyLoop(loop), loop != nil
	}

	info, err := s.Info(ctx, src)
	if err != nil {
		slog.Debug("loop points unavailable", "src", src, "error", err)
		return nil, false
	}

	var loop *model.LoopPoints
	if start, end, ok := info.LoopPoints(); ok {
		loop = &model.LoopPoints{Start: start, End: end}
	}
	s.loopCache.Set(key, loop, cache.DefaultExpiration)

	return copyLoop(loop), loop != nil
}

func copyLoop(l *model.LoopPoints) *model.LoopPoints {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func (s *Service) vgmstreamDecode(ctx context.Context, tools Tools, src string) ([]byte, error) {
	if tools.VgmstreamPath == "" {
		return nil, fmt.Errorf("%s: %w", ToolVgmstream, ErrToolNotConfigured)
	}

	name, args := BuildVgmstreamDecodeCommand(tools, src)
	res, err := s.run(ctx, tools, ToolVgmstream, name, args)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded with vgmstream", "src", src, "size", platform.HumanSize(len(res.Stdout)))
	return res.Stdout, nil
}

func (s *Service) vgaudioCliDecode(ctx context.Context, tools Tools, src, dest string) ([]byte, error) {
	if tools.VGAudioCliPath == "" {
		return nil, fmt.Errorf("%s: %w", ToolVGAudioCli, ErrToolNotConfigured)
	}

	name, args := BuildVGAudioCliCommand(tools, src, dest, nil, "")
	if _, err := s.run(ctx, tools, ToolVGAudioCli, name, args); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("error reading destination file %s: %w", dest, err)
	}
	return data, nil
}

// run executes one tool invocation with the configured timeout
func (s *Service) run(ctx context.Context, tools Tools, tool, name string, args []string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, tools.Timeout)
	defer cancel()

	slog.Debug("running tool", "tool", tool, "command", describeCommand(name, args))

	res, err := s.runner.Run(ctx, name, args...)
	if err != nil {
		return res, fmt.Errorf("error running %s: %w", tool, err)
	}
	if res.ExitCode != 0 {
		return res, &ExitError{
			Tool:   tool,
			Code:   res.ExitCode,
			Stdout: res.Stdout,
			Stderr: res.Stderr,
		}
	}

	if len(res.Stderr) > 0 {
		slog.Debug("tool stderr", "tool", tool, "stderr", string(res.Stderr))
	}
	return res, nil
}

var _ Converter = (*Service)(nil)
