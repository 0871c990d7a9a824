package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

var errBadFormat = errors.New("format must be idsp or lopus")

type replaceOptions struct {
	output    string
	format    string
	loopStart int
	loopEnd   int
}

func newReplaceCmd(a *app) *cobra.Command {
	var opts replaceOptions
	cmd := &cobra.Command{
		Use:   "replace <bank.nus3audio> <sound> <file>",
		Short: "Swap the payload of one sound",
		Long: `Swap the payload of one sound. idsp, lopus and bin files are stored as
they are; wav, mp3, ogg and flac files are encoded with VGAudioCli into the
sound's current format, or the one given with --format.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplace(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "write the bank here instead of in place")
	flags.StringVar(&opts.format, "format", "", "encode to idsp or lopus")
	flags.IntVar(&opts.loopStart, "loop-start", 0, "loop start in samples")
	flags.IntVar(&opts.loopEnd, "loop-end", 0, "loop end in samples; 0 disables looping")
	return cmd
}

func (a *app) runReplace(cmd *cobra.Command, args []string, opts replaceOptions) error {
	bankPath, soundName, source := args[0], args[1], args[2]

	f, err := nus3.Open(bankPath)
	if err != nil {
		return err
	}
	index, err := findSound(f, soundName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	if _, raw := nus3.ParseExtension(strings.TrimPrefix(filepath.Ext(source), ".")); !raw {
		ext, err := replaceFormat(f.Files[index].Data, opts.format)
		if err != nil {
			return err
		}
		if data, err = a.encode(cmd, data, codec.EncodingFromPath(source), ext, opts); err != nil {
			return fmt.Errorf("encoding %s: %w", source, err)
		}
	}
	f.Files[index].Data = data

	target := bankPath
	if opts.output != "" {
		target = opts.output
	}
	if err := platform.WriteFile(target, f.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "replaced %q in %s (%s)\n", soundName, target, platform.HumanSize(len(data)))
	return nil
}

// replaceFormat picks the encoder output: the flag when given, otherwise
// the format of the payload being replaced
func replaceFormat(current []byte, flag string) (nus3.Extension, error) {
	if flag != "" {
		ext, ok := nus3.ParseExtension(flag)
		if !ok || !ext.Encoded() {
			return "", fmt.Errorf("%w, got %q", errBadFormat, flag)
		}
		return ext, nil
	}
	if ext := nus3.DetectExtension(current); ext.Encoded() {
		return ext, nil
	}
	// VGAudioCli writes lopus without the OPUS magic
	ext, err := nus3.GuessEncodedExtension(current)
	if err != nil {
		return "", fmt.Errorf("current payload is binary data: %w", errBadFormat)
	}
	return ext, nil
}

func (a *app) encode(cmd *cobra.Command, data []byte, encoding codec.EncodingType, ext nus3.Extension, opts replaceOptions) ([]byte, error) {
	if !encoding.CanBeDecoded() {
		return nil, codec.ErrUnsupportedEncoding
	}
	pcm, err := codec.NewEncodedFile(data, encoding).Decode()
	if err != nil {
		return nil, err
	}

	var loop *model.LoopPoints
	if opts.loopEnd > 0 {
		loop = &model.LoopPoints{Start: opts.loopStart, End: opts.loopEnd}
		if err := editor.ValidateLoop(ext, loop); err != nil {
			return nil, err
		}
		pcm.Truncate(loop.End)
	}
	if ext == nus3.ExtLOPUS {
		rate := pcm.SampleRate
		pcm = codec.PrepareForLopus(pcm)
		if loop != nil && rate != pcm.SampleRate {
			loop.Start = int(int64(loop.Start) * int64(pcm.SampleRate) / int64(rate))
			loop.End = int(int64(loop.End) * int64(pcm.SampleRate) / int64(rate))
		}
	}

	wav, err := codec.EncodeWAV(pcm)
	if err != nil {
		return nil, err
	}

	work, err := os.MkdirTemp("", "nus3audio-cli-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	src := filepath.Join(work, "source.wav")
	if err := platform.WriteFile(src, wav); err != nil {
		return nil, err
	}
	return a.converter().Encode(cmd.Context(), src, filepath.Join(work, "encoded."+string(ext)), loop)
}
