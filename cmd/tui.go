package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"mid1lights/internal/app"
	"mid1lights/internal/storage"
	"mid1lights/internal/ui/tui"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show the LED bar in the terminal",
		Long:  "Shows the LED bar in the terminal. Logs go to tui.log in the config directory so they do not tear the screen.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
}

func runTUI(opts *options) error {
	configDir, err := storage.ConfigDir(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(configDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	current, err := startSession(opts, logFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := tui.Run(ctx, current.bus, current.keymap, app.StripLEDs)
	if err := current.close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("shut down: %w", err)
	}
	return runErr
}
