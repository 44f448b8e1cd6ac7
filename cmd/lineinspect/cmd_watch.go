package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lineinspect/internal/logging"
	"lineinspect/internal/watch"
)

// watchCmd re-runs the inspection whenever the file changes
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Inspect the file now and again every time it changes",
	Long: `Runs the inspection once, then watches the file and prints a fresh report
after each change (debounced by watch.debounce). Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchUntil(ctx, cmd)
}

func watchUntil(ctx context.Context, cmd *cobra.Command) error {
	in, err := newInspector()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	path, target := cfg.Target.Path, cfg.Target.Line
	w := watch.New(path, cfg.GetDebounce(), func(ctx context.Context) {
		in.Run(ctx, out, path, target)
	}, logging.Get(logger, logging.CategoryWatch))

	return w.Run(ctx)
}
