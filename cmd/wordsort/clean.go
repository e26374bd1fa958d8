package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/garethgeorge/wordsort/internal/runstore"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove leftover temporary run files",
	Long: "A failed sort leaves its temporary run files behind. clean removes any\n" +
		"sorted*.txt run files from the given directory (default: current directory).",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		removed, err := runstore.Sweep(cmd.Context(), dir)
		if err != nil {
			return err
		}
		slog.Info("removed leftover run files", "dir", dir, "count", removed)
		return nil
	},
}
