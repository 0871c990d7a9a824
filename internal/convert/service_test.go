package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/nus3audio-editor/internal/model"
)

// writeDestHandler emulates VGAudioCli: it writes payload to the destination argument
func writeDestHandler(t *testing.T, payload []byte) func(string, []string) (Result, error) {
	return func(name string, args []string) (Result, error) {
		for i, a := range args {
			if a == ConvertFlag && i+2 < len(args) {
				require.NoError(t, os.WriteFile(args[i+2], payload, 0o644))
				return Result{}, nil
			}
		}
		return Result{Stdout: []byte("RIFF-from-vgmstream")}, nil
	}
}

func TestService_DecodeToolSelection(t *testing.T) {
	tests := []struct {
		name     string
		tools    Tools
		expected string
		wantErr  error
	}{
		{
			name:     "prefers vgmstream",
			tools:    Tools{VGAudioCliPath: "vga", VgmstreamPath: "vgm", PreferVgmstream: true},
			expected: "vgm -p SRC",
		},
		{
			name:     "prefers vgmstream but missing",
			tools:    Tools{VGAudioCliPath: "vga", RuntimePath: "mono", PreferVgmstream: true},
			expected: "mono vga -c SRC DEST",
		},
		{
			name:     "prefers VGAudioCli",
			tools:    Tools{VGAudioCliPath: "vga", VgmstreamPath: "vgm"},
			expected: "vga -c SRC DEST",
		},
		{
			name:     "VGAudioCli missing falls back",
			tools:    Tools{VgmstreamPath: "vgm"},
			expected: "vgm -p SRC",
		},
		{
			name:    "nothing configured",
			tools:   Tools{PreferVgmstream: true},
			wantErr: ErrToolNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "sound.idsp")
			dest := filepath.Join(dir, "sound.wav")

			runner := &fakeRunner{handle: writeDestHandler(t, []byte("RIFF-from-vgaudio"))}
			svc := NewService(staticTools(tt.tools), runner)

			data, err := svc.Decode(context.Background(), src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, runner.calls)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, data)

			expected := strings.NewReplacer("SRC", src, "DEST", dest).Replace(tt.expected)
			assert.Equal(t, []string{expected}, runner.commandLines())
		})
	}
}

func TestService_Encode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dest := filepath.Join(dir, "out.lopus")

	runner := &fakeRunner{handle: writeDestHandler(t, []byte("OPUS-bytes"))}
	svc := NewService(staticTools(Tools{VGAudioCliPath: "vga"}), runner)

	data, err := svc.Encode(context.Background(), src, dest, &model.LoopPoints{Start: 1, End: 9})
	require.NoError(t, err)
	assert.Equal(t, []byte("OPUS-bytes"), data)
	assert.Equal(t, []string{"vga -c " + src + " " + dest + " -l 1-9 --cbr --opusheader namco"}, runner.commandLines())

	_, err = NewService(staticTools(Tools{}), runner).Encode(context.Background(), src, dest, nil)
	assert.ErrorIs(t, err, ErrToolNotConfigured)
}

func TestService_EncodeMissingOutput(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(staticTools(Tools{VGAudioCliPath: "vga"}), &fakeRunner{})

	_, err := svc.Encode(context.Background(), filepath.Join(dir, "in.wav"), filepath.Join(dir, "out.idsp"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading destination file")
}

func TestService_ExitError(t *testing.T) {
	runner := &fakeRunner{handle: func(string, []string) (Result, error) {
		return Result{ExitCode: 2, Stderr: []byte("Unknown format\n")}, nil
	}}
	svc := NewService(staticTools(Tools{VgmstreamPath: "vgm", PreferVgmstream: true}), runner)

	_, err := svc.Decode(context.Background(), "x.idsp")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ToolVgmstream, exitErr.Tool)
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t,
		"Attempted running vgmstream, found exit code 2\nstdout is empty\nstderr is:\nUnknown format",
		err.Error())
}

func TestService_RunnerFailure(t *testing.T) {
	boom := errors.New("exec: not found")
	runner := &fakeRunner{handle: func(string, []string) (Result, error) { return Result{}, boom }}
	svc := NewService(staticTools(Tools{VgmstreamPath: "vgm", PreferVgmstream: true}), runner)

	_, err := svc.Decode(context.Background(), "x.idsp")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error running vgmstream")
}

func TestService_LoopPoints(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.idsp")
	require.NoError(t, os.WriteFile(src, []byte("IDSP-payload"), 0o644))

	runner := &fakeRunner{handle: func(string, []string) (Result, error) {
		return Result{Stdout: []byte(`{"loopingInfo": {"start": 10, "end": 400}}`)}, nil
	}}
	svc := NewService(staticTools(Tools{VgmstreamPath: "vgm"}), runner)

	loop, ok := svc.LoopPoints(context.Background(), src)
	require.True(t, ok)
	assert.Equal(t, &model.LoopPoints{Start: 10, End: 400}, loop)

	// Same content is answered from the cache
	copyPath := filepath.Join(dir, "b.idsp")
	require.NoError(t, os.WriteFile(copyPath, []byte("IDSP-payload"), 0o644))
	loop2, ok := svc.LoopPoints(context.Background(), copyPath)
	require.True(t, ok)
	assert.Equal(t, loop, loop2)
	assert.Len(t, runner.calls, 1)

	loop2.Start = 99
	loop3, _ := svc.LoopPoints(context.Background(), src)
	assert.Equal(t, 10, loop3.Start, "cached value must not be shared")
}

func TestService_LoopPointsAbsent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.idsp")
	require.NoError(t, os.WriteFile(src, []byte("IDSP"), 0o644))

	tests := []struct {
		name   string
		tools  Tools
		result Result
	}{
		{"no vgmstream", Tools{}, Result{}},
		{"tool fails", Tools{VgmstreamPath: "vgm"}, Result{ExitCode: 1}},
		{"bad json", Tools{VgmstreamPath: "vgm"}, Result{Stdout: []byte("{")}},
		{"no loop", Tools{VgmstreamPath: "vgm"}, Result{Stdout: []byte(`{"loopingInfo": null}`)}},
		{"backwards loop", Tools{VgmstreamPath: "vgm"}, Result{Stdout: []byte(`{"loopingInfo": {"start": 9, "end": 3}}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{handle: func(string, []string) (Result, error) { return tt.result, nil }}
			svc := NewService(staticTools(tt.tools), runner)

			loop, ok := svc.LoopPoints(context.Background(), src)
			assert.False(t, ok)
			assert.Nil(t, loop)
		})
	}

	svc := NewService(staticTools(Tools{VgmstreamPath: "vgm"}), &fakeRunner{})
	_, ok := svc.LoopPoints(context.Background(), filepath.Join(dir, "missing.idsp"))
	assert.False(t, ok)
}

func TestService_DefaultTimeout(t *testing.T) {
	svc := NewService(staticTools(Tools{}), nil)
	assert.Equal(t, DefaultToolTimeout, svc.Tools().Timeout)
	assert.IsType(t, ExecRunner{}, svc.runner)
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	res, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))

	_, err = ExecRunner{}.Run(context.Background(), "definitely-not-a-real-tool-3f9a")
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = ExecRunner{}.Run(ctx, "sh", "-c", "sleep 5")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
