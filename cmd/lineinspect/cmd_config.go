package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lineinspect/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the lineinspect config file",
	// The config being managed may not exist or validate yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the default configuration (never overwrites)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}
