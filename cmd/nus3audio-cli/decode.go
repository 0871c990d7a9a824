package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <bank.nus3audio> <sound> [out.wav]",
		Short: "Decode one sound to WAV with vgmstream or VGAudioCli",
		Long: `Decode one idsp or lopus sound to WAV. The output defaults to the sound
name with a .wav extension. Loop points are printed when the tool reports
them.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: a.runDecode,
	}
}

func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	f, err := nus3.Open(args[0])
	if err != nil {
		return err
	}
	index, err := findSound(f, args[1])
	if err != nil {
		return err
	}
	af := f.Files[index]

	ext := nus3.DetectExtension(af.Data)
	if !ext.Encoded() {
		if ext, err = nus3.GuessEncodedExtension(af.Data); err != nil {
			return fmt.Errorf("sound %q: %w", af.Name, err)
		}
	}

	target := platform.WithExtension(af.Name, "wav")
	if len(args) == 3 {
		target = args[2]
	}

	work, err := os.MkdirTemp("", "nus3audio-cli-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	src := filepath.Join(work, "sound."+string(ext))
	if err := platform.WriteFile(src, af.Data); err != nil {
		return err
	}

	conv := a.converter()
	wav, err := conv.Decode(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("decoding %q: %w", af.Name, err)
	}
	if err := platform.WriteFile(target, wav); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", target, platform.HumanSize(len(wav)))
	if loop, ok := conv.LoopPoints(cmd.Context(), src); ok {
		fmt.Fprintf(out, "loop %d-%d\n", loop.Start, loop.End)
	}
	return nil
}
