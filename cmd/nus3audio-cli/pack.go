package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

var errNothingToPack = errors.New("no idsp, lopus or bin files found")

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <dir> <bank.nus3audio>",
		Short: "Build a bank from the idsp, lopus and bin files in a directory",
		Long: `Build a bank from a directory. Files are added in name order; each sound
is named after its file without the extension and numbered from zero.
Other files are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: runPack,
	}
}

func runPack(cmd *cobra.Command, args []string) error {
	dir, target := args[0], args[1]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	f := nus3.New()
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if _, ok := nus3.ParseExtension(strings.TrimPrefix(ext, ".")); !ok {
			slog.Info("skipping file", "file", entry.Name())
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		f.Files = append(f.Files, nus3.AudioFile{
			ID:   uint32(len(f.Files)),
			Name: strings.TrimSuffix(entry.Name(), ext),
			Data: data,
		})
	}
	if len(f.Files) == 0 {
		return fmt.Errorf("%s: %w", dir, errNothingToPack)
	}

	if err := platform.WriteFile(target, f.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d sounds into %s (%s)\n",
		len(f.Files), target, platform.HumanSize(f.Size()))
	return nil
}
