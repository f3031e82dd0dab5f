package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utkarsh5026/ogy/internal/listing"
	"github.com/utkarsh5026/ogy/internal/render"
)

type lsOptions struct {
	poolFlags
	all bool
}

// NewLsCmd creates and returns the ls subcommand.
func NewLsCmd() *cobra.Command {
	var o lsOptions

	cmd := &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List directory entries with their metadata",
		Long: `List the entries of PATH (default: the current directory) as a table of
permissions, hard links, owner, size in bytes, last modification time and
name. Entries whose name starts with a dot are hidden unless --all is set.

Each entry is looked up on a worker pool. An entry that cannot be stat'ed
is shown as a failed row; the command only fails when the directory itself
cannot be read, the pool cannot start, or the listing is interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runLs(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), dir, o)
		},
	}

	cmd.Flags().BoolVarP(&o.all, "all", "a", false, "Include hidden entries")
	o.register(cmd.Flags())

	return cmd
}

func runLs(ctx context.Context, stdout, stderr io.Writer, dir string, o lsOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(stderr, o.verbose)
	defer func() { _ = logger.Sync() }()

	opts := o.options(logger)
	opts.ShowHidden = o.all
	finish := o.attachProgress(stderr, &opts)

	report, err := listing.List(ctx, dir, opts)
	finish()
	if err != nil {
		return fmt.Errorf("ls %s: %w", dir, err)
	}

	logger.Debug("listing finished",
		zap.String("dir", dir),
		zap.Int("entries", len(report.Entries)),
		zap.Int("failed", report.Failures()),
		zap.Duration("elapsed", report.Elapsed),
	)

	return render.NewPrinter(stdout, o.noColor).Report(report)
}
