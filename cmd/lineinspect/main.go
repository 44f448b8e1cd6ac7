package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lineinspect/internal/config"
	"lineinspect/internal/inspect"
	"lineinspect/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Target flags (root and watch)
	lineFlag      int
	neighborsFlag string

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd inspects a single file
var rootCmd = &cobra.Command{
	Use:   "lineinspect [path]",
	Short: "Print a line of a text file together with its neighbors",
	Long: `Loads a UTF-8 text file and prints the target line, the line before it
and the line after it, in that order:

  Line 1160: <content>
  Line 1159: <content>
  Line 1161: <content>

Files shorter than the target line produce no output. Problems reading the
file are printed as a single diagnostic line. The exit status is 0 for every
inspection outcome.

The path defaults to target.path from the config file.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInspect,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Config file (YAML)")

	addTargetFlags(rootCmd)
	addTargetFlags(watchCmd)

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&lineFlag, "line", "n", 0, "Target line, one-based (default from config: 1160)")
	cmd.Flags().StringVar(&neighborsFlag, "neighbors", "", "Neighbor policy: strict or lenient (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads .env and the config file, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("line") {
		loaded.Target.Line = lineFlag
	}
	if cmd.Flags().Changed("neighbors") {
		loaded.Target.Neighbors = neighborsFlag
	}
	if len(args) > 0 && args[0] != "" {
		loaded.Target.Path = args[0]
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(loaded.Logging, verbose)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	logging.Get(logger, logging.CategoryBoot).Debug("Configuration resolved",
		zap.String("config", configPath),
		zap.String("path", cfg.Target.Path),
		zap.Int("line", cfg.Target.Line),
		zap.String("neighbors", cfg.Target.Neighbors))
	return nil
}

// newInspector builds the inspector for the resolved configuration.
func newInspector() (*inspect.Inspector, error) {
	policy, err := inspect.ParsePolicy(cfg.Target.Neighbors)
	if err != nil {
		return nil, err
	}
	return inspect.New(inspect.Options{
		Neighbors: policy,
		Logger:    logging.Get(logger, logging.CategoryInspect),
	}), nil
}

// runInspect performs one inspection. Inspection failures are part of the
// printed report and never turn into a command error.
func runInspect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := newInspector()
	if err != nil {
		return err
	}
	in.Run(ctx, cmd.OutOrStdout(), cfg.Target.Path, cfg.Target.Line)
	return nil
}
