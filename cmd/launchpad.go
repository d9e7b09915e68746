package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"mid1lights/internal/logging"
	"mid1lights/internal/ui/launchpad"
)

func newLaunchpadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launchpad",
		Short: "Mirror the LED bar on a Novation Launchpad X",
		RunE: func(cmd *cobra.Command, _ []string) error {
			listPorts, _ := cmd.Flags().GetBool("list")
			if listPorts {
				return printPorts(cmd)
			}
			return runLaunchpad(opts)
		},
	}
	cmd.Flags().BoolP("list", "l", false, "List MIDI ports and exit")
	return cmd
}

func printPorts(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "inputs:")
	for _, port := range gomidi.GetInPorts() {
		fmt.Fprintf(out, "  %s\n", port.String())
	}
	fmt.Fprintln(out, "outputs:")
	for _, port := range gomidi.GetOutPorts() {
		fmt.Fprintf(out, "  %s\n", port.String())
	}
	return nil
}

func runLaunchpad(opts *options) error {
	defer gomidi.CloseDriver()

	current, err := startSession(opts, os.Stderr)
	if err != nil {
		return err
	}

	inPort, outPort, err := launchpad.FindPorts(current.settings.LaunchpadIn, current.settings.LaunchpadOut)
	if err != nil {
		_ = current.close()
		return err
	}
	surface, err := launchpad.Open(inPort, outPort, current.bus, current.keymap, logging.GetLogger("launchpad"))
	if err != nil {
		_ = current.close()
		return fmt.Errorf("open launchpad: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	surface.Close()
	if err := current.close(); err != nil {
		return fmt.Errorf("shut down: %w", err)
	}
	return nil
}
