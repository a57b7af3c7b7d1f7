package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/vmarinov/cliplingo/internal/cli"
	"codeberg.org/vmarinov/cliplingo/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	proc := processor.NewProcessor(flags)
	defer proc.Close()

	// Handle --set-key flag
	if flags.SetKey != "" {
		return proc.SaveKey(flags.SetKey)
	}

	// Handle --history flag
	if flags.HistoryLimit > 0 {
		return proc.PrintHistory(flags.HistoryLimit)
	}

	// Handle --once flag
	if flags.Once {
		return proc.RunOnce(context.Background())
	}

	// No one-shot action requested - launch GUI mode by default
	return proc.RunGUIMode()
}
