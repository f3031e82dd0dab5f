package cmd

import (
	"io"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/utkarsh5026/ogy/internal/listing"
	"github.com/utkarsh5026/ogy/internal/render"
)

// poolFlags are the lookup pool settings shared by ls and find.
type poolFlags struct {
	workers  int
	timeout  time.Duration
	retries  int
	rate     float64
	pin      bool
	progress bool
	noColor  bool
	verbose  bool
}

func (f *poolFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "Number of lookup workers (0 = GOMAXPROCS)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Give up on lookups not finished after this long")
	fs.IntVar(&f.retries, "retries", 0, "Retries for interrupted lookups (EINTR, EAGAIN)")
	fs.Float64Var(&f.rate, "rate", 0, "Maximum lookups per second (0 = unlimited)")
	fs.BoolVar(&f.pin, "pin", false, "Pin each worker to its own CPU core (Linux)")
	fs.BoolVar(&f.progress, "progress", false, "Show a progress bar on stderr")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.verbose, "verbose", false, "Log pool activity to stderr")
}

func (f *poolFlags) options(logger *zap.Logger) listing.Options {
	return listing.Options{
		Workers: f.workers,
		Timeout: f.timeout,
		Retries: f.retries,
		Rate:    f.rate,
		Pin:     f.pin,
		Logger:  logger,
	}
}

// attachProgress hooks a progress bar on w into opts when --progress is
// set. The returned func clears the bar.
func (f *poolFlags) attachProgress(w io.Writer, opts *listing.Options) (finish func()) {
	if !f.progress {
		return func() {}
	}

	bar := render.NewProgress(w, -1)
	opts.OnStart = func(total int) { bar.ChangeMax(total) }
	opts.OnEntryDone = func(error) { _ = bar.Add(1) }
	return func() { _ = bar.Finish() }
}

// newLogger returns a development console logger on w when verbose is
// set, and a no-op logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development())
}
