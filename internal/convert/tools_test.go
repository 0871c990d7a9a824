package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

func lookPathWith(found ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, f := range found {
			if f == file {
				return "/usr/bin/" + f, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		found    []string
		expected string
	}{
		{"windows needs no runtime", "windows", []string{"mono"}, ""},
		{"mono first", "linux", []string{"dotnet", "mono"}, "mono"},
		{"dotnet second", "linux", []string{"dotnet"}, "dotnet"},
		{"wine fallback", "darwin", nil, "wine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectRuntime(tt.goos, lookPathWith(tt.found...)))
		})
	}
}

func TestDetectVgmstream(t *testing.T) {
	assert.Equal(t, DefaultVgmstreamCommand, DetectVgmstream(lookPathWith(DefaultVgmstreamCommand)))
	assert.Equal(t, "", DetectVgmstream(lookPathWith()))
}

func TestBuildVGAudioCliCommand(t *testing.T) {
	tests := []struct {
		name         string
		tools        Tools
		loop         *model.LoopPoints
		ext          nus3.Extension
		expectedName string
		expectedArgs []string
	}{
		{
			name:         "runtime prefix",
			tools:        Tools{VGAudioCliPath: "/opt/VGAudioCli.exe", RuntimePath: "mono"},
			ext:          nus3.ExtIDSP,
			expectedName: "mono",
			expectedArgs: []string{"/opt/VGAudioCli.exe", "-c", "in.wav", "out.idsp"},
		},
		{
			name:         "no runtime",
			tools:        Tools{VGAudioCliPath: "VGAudioCli.exe"},
			ext:          nus3.ExtIDSP,
			expectedName: "VGAudioCli.exe",
			expectedArgs: []string{"-c", "in.wav", "out.idsp"},
		},
		{
			name:         "loop",
			tools:        Tools{VGAudioCliPath: "VGAudioCli.exe"},
			loop:         &model.LoopPoints{Start: 100, End: 5000},
			ext:          nus3.ExtIDSP,
			expectedName: "VGAudioCli.exe",
			expectedArgs: []string{"-c", "in.wav", "out.idsp", "-l", "100-5000"},
		},
		{
			name:         "invalid loop is ignored",
			tools:        Tools{VGAudioCliPath: "VGAudioCli.exe"},
			loop:         &model.LoopPoints{Start: 5000, End: 100},
			ext:          nus3.ExtIDSP,
			expectedName: "VGAudioCli.exe",
			expectedArgs: []string{"-c", "in.wav", "out.idsp"},
		},
		{
			name:         "lopus",
			tools:        Tools{VGAudioCliPath: "VGAudioCli.exe", RuntimePath: "wine"},
			loop:         &model.LoopPoints{Start: 0, End: 48000},
			ext:          nus3.ExtLOPUS,
			expectedName: "wine",
			expectedArgs: []string{"VGAudioCli.exe", "-c", "in.wav", "out.lopus", "-l", "0-48000", "--cbr", "--opusheader", "namco"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := "out." + string(tt.ext)
			name, args := BuildVGAudioCliCommand(tt.tools, "in.wav", dest, tt.loop, tt.ext)
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestBuildVgmstreamCommands(t *testing.T) {
	tools := Tools{VgmstreamPath: "vgmstream-cli"}

	name, args := BuildVgmstreamDecodeCommand(tools, "a.idsp")
	assert.Equal(t, "vgmstream-cli", name)
	assert.Equal(t, []string{"-p", "a.idsp"}, args)

	_, args = BuildVgmstreamInfoCommand(tools, "a.idsp")
	assert.Equal(t, []string{"-mI", "a.idsp"}, args)
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, nus3.ExtLOPUS, extensionOf("/tmp/x.lopus"))
	assert.Equal(t, nus3.ExtIDSP, extensionOf("/tmp/x.IDSP"))
	assert.Equal(t, nus3.ExtBin, extensionOf("/tmp/x.wav"))
}
