package main

import (
	"os"

	"github.com/spf13/cobra"
)

const appName = "mid1lights"

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "MID.1 lighting simulator",
		Long:          "Runs the MID.1 Pomodoro and color picker lighting on a simulated LED bar with desktop, terminal or Launchpad front ends.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	bindFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newDesktopCmd(opts),
		newTUICmd(opts),
		newLaunchpadCmd(opts),
		newEEPROMCmd(opts),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
