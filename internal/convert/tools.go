package convert

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// Tool names used in errors and logs
const (
	ToolVGAudioCli = "VGAudioCli"
	ToolVgmstream  = "vgmstream"
)

// Runtime candidates in priority order; wine is the fallback
var RuntimeCandidates = []string{"mono", "dotnet"}

// FallbackRuntime is used when no candidate is on the search path
const FallbackRuntime = "wine"

// DefaultVgmstreamCommand is looked up on the search path for the default setting
const DefaultVgmstreamCommand = "vgmstream-cli"

// DefaultToolTimeout bounds a single tool run
const DefaultToolTimeout = 60 * time.Second

// VGAudioCli arguments
const (
	ConvertFlag     = "-c"
	LoopFlag        = "-l"
	CBRFlag         = "--cbr"
	OpusHeaderFlag  = "--opusheader"
	OpusHeaderNamco = "namco"
)

// vgmstream arguments
const (
	VgmstreamPlayFlag = "-p"
	VgmstreamInfoFlag = "-mI"
)

// Tools is a snapshot of the configured external tools
type Tools struct {
	VGAudioCliPath  string
	RuntimePath     string
	VgmstreamPath   string
	PreferVgmstream bool
	Timeout         time.Duration
}

// LookPathFunc finds an executable on the search path
type LookPathFunc func(file string) (string, error)

// DetectRuntime returns the program used to run VGAudioCli: empty on
// Windows, otherwise the first of mono or dotnet on the search path,
// falling back to wine
func DetectRuntime(lookPath LookPathFunc) string {
	return detectRuntime(runtime.GOOS, lookPath)
}

func detectRuntime(goos string, lookPath LookPathFunc) string {
	if goos == platform.OSWindows {
		return ""
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, candidate := range RuntimeCandidates {
		if _, err := lookPath(candidate); err == nil {
			return candidate
		}
	}
	return FallbackRuntime
}

// DetectVgmstream returns the default vgmstream command if it is on the search path
func DetectVgmstream(lookPath LookPathFunc) string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(DefaultVgmstreamCommand); err == nil {
		return DefaultVgmstreamCommand
	}
	return ""
}

// DefaultVGAudioCliPath is where VGAudioCli is expected before it is configured
func DefaultVGAudioCliPath() string {
	if platform.IsWindows() {
		return `.\VGAudioCli.exe`
	}
	return "./VGAudioCli.exe"
}

// BuildVGAudioCliCommand builds the program and arguments for a VGAudioCli
// conversion from src to dest. The output format follows ext.
func BuildVGAudioCliCommand(tools Tools, src, dest string, loop *model.LoopPoints, ext nus3.Extension) (string, []string) {
	name := tools.VGAudioCliPath
	var args []string
	if tools.RuntimePath != "" {
		name = tools.RuntimePath
		args = append(args, tools.VGAudioCliPath)
	}

	args = append(args, ConvertFlag, src, dest)
	if loop != nil && loop.Valid() {
		args = append(args, LoopFlag, loop.String())
	}
	if ext == nus3.ExtLOPUS {
		args = append(args, CBRFlag, OpusHeaderFlag, OpusHeaderNamco)
	}

	return name, args
}

// BuildVgmstreamDecodeCommand builds the command that writes WAV to stdout
func BuildVgmstreamDecodeCommand(tools Tools, src string) (string, []string) {
	return tools.VgmstreamPath, []string{VgmstreamPlayFlag, src}
}

// BuildVgmstreamInfoCommand builds the command that prints JSON metadata
func BuildVgmstreamInfoCommand(tools Tools, src string) (string, []string) {
	return tools.VgmstreamPath, []string{VgmstreamInfoFlag, src}
}

// extensionOf maps a destination path to the container format it requests
func extensionOf(path string) nus3.Extension {
	ext, ok := nus3.ParseExtension(strings.TrimPrefix(filepath.Ext(path), "."))
	if !ok {
		return nus3.ExtBin
	}
	return ext
}

// describeCommand formats a command line for logs
func describeCommand(name string, args []string) string {
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
