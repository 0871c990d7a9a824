package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <bank.nus3audio> [dir]",
		Short: "Write every payload of a bank to a directory",
		Long: `Write every payload unchanged, named after the sound with the extension
detected from its bytes. The directory defaults to the bank path without
its extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	f, err := nus3.Open(args[0])
	if err != nil {
		return err
	}

	dir := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	if len(args) == 2 {
		dir = args[1]
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	used := make(map[string]bool, len(f.Files))
	for i, af := range f.Files {
		name := payloadFileName(af, i, used)
		path := filepath.Join(dir, name)
		if err := platform.WriteFile(path, af.Data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// payloadFileName keeps the file inside the target directory and unique
// when two sounds share a name
func payloadFileName(af nus3.AudioFile, index int, used map[string]bool) string {
	stem := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, af.Name)
	if stem == "" || stem == "." || stem == ".." {
		stem = fmt.Sprintf("sound_%d", index)
	}

	ext := "." + string(nus3.DetectExtension(af.Data))
	name := stem + ext
	if used[name] {
		name = fmt.Sprintf("%s_%d%s", stem, index, ext)
	}
	used[name] = true
	return name
}
