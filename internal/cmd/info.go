package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/ogy/internal/listing"
	"github.com/utkarsh5026/ogy/internal/render"
)

// NewInfoCmd creates and returns the info subcommand.
func NewInfoCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "info PATH",
		Short: "Show the metadata of a single file",
		Long: `Show permissions, hard links, owner, size, last modification time and
name of PATH in the same table ls uses. Symbolic links are followed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			info, err := listing.Lookup(path)
			if err != nil {
				return fmt.Errorf("info %s: %w", path, err)
			}

			report := &listing.Report{
				Dir:     path,
				Workers: 1,
				Entries: []listing.Entry{{Name: path, Path: path, Info: info}},
			}
			return render.NewPrinter(cmd.OutOrStdout(), noColor).Table(report)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
