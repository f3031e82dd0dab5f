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

type findOptions struct {
	poolFlags
	root      string
	recursive bool
}

// NewFindCmd creates and returns the find subcommand.
func NewFindCmd() *cobra.Command {
	var o findOptions

	cmd := &cobra.Command{
		Use:   "find TERM",
		Short: "Find entries whose name contains TERM",
		Long: `Search the current directory (or --path) for entries whose name
contains TERM, ignoring case. With --rec subdirectories are searched too;
unreadable ones are skipped.

Every match is looked up on a worker pool and shown with its full path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], o)
		},
	}

	cmd.Flags().BoolVar(&o.recursive, "rec", false, "Search subdirectories recursively")
	cmd.Flags().StringVarP(&o.root, "path", "p", ".", "Directory to search")
	o.register(cmd.Flags())

	return cmd
}

func runFind(ctx context.Context, stdout, stderr io.Writer, term string, o findOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(stderr, o.verbose)
	defer func() { _ = logger.Sync() }()

	opts := o.options(logger)
	finish := o.attachProgress(stderr, &opts)

	report, err := listing.Find(ctx, o.root, term, o.recursive, opts)
	finish()
	if err != nil {
		return fmt.Errorf("find %q: %w", term, err)
	}

	logger.Debug("search finished",
		zap.String("root", o.root),
		zap.String("term", term),
		zap.Bool("recursive", o.recursive),
		zap.Int("matches", len(report.Entries)),
		zap.Duration("elapsed", report.Elapsed),
	)

	if len(report.Entries) == 0 {
		_, err := fmt.Fprintln(stdout, "No file(s) found")
		return err
	}

	p := render.NewPrinter(stdout, o.noColor)
	if err := p.Table(report); err != nil {
		return err
	}
	return p.Summary(report)
}
