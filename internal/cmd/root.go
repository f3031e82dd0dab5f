package cmd

import (
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/ogy/internal/version"
)

// NewRootCmd creates and returns the root cobra command for the ogy CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ogy",
		Short: "ogy - a terminal file explorer",
		Long: `ogy is a small terminal file explorer.

Directory listings stat every entry on a pool of worker goroutines, so
large directories and slow mounts are read in parallel while the output
keeps directory order.

Use subcommands to perform different operations:
  - ls: List a directory with permissions, links, owner, size and mtime
  - find: Search entries by name, optionally recursively
  - info: Show the metadata of a single file`,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewFindCmd())
	rootCmd.AddCommand(NewInfoCmd())

	return rootCmd
}
