package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <bank.nus3audio>",
		Short: "List the sounds stored in a bank",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := nus3.Open(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(f.Files) == 0 {
		fmt.Fprintln(out, "(empty bank)")
		return nil
	}

	maxLen := 0
	for _, af := range f.Files {
		maxLen = max(maxLen, len(af.Name))
	}
	for i, af := range f.Files {
		fmt.Fprintf(out, "%3d  %-*s  %-5s  %8s  id=%d\n",
			i, maxLen, af.Name, nus3.DetectExtension(af.Data), platform.HumanSize(len(af.Data)), af.ID)
	}
	return nil
}
