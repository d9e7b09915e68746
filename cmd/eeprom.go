package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mid1lights/internal/app"
	"mid1lights/internal/platform"
	"mid1lights/internal/storage"
)

func newEEPROMCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eeprom",
		Short: "Inspect or reset the persisted EEPROM image",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dump",
			Short: "Print the boot flag, Pomodoro durations and palette",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return dumpEEPROM(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Write factory defaults to the EEPROM image",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return resetEEPROM(cmd, opts)
			},
		},
	)
	return cmd
}

func dumpEEPROM(cmd *cobra.Command, opts *options) error {
	settings, _, err := opts.loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	config := settings.RuntimeConfig()

	image, err := storage.LoadImage(settings.EEPROMPath, config.Storage.Size)
	if err != nil {
		return err
	}
	summary := app.DecodeImage(image, config)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "image:          %s\n", settings.EEPROMPath)
	if image == nil {
		fmt.Fprintln(out, "                (missing, showing erased memory)")
	}
	boot := "uninitialised"
	if summary.BootInitialised {
		boot = fmt.Sprintf("%t", summary.BootAnimation)
	}
	fmt.Fprintf(out, "boot animation: %s\n", boot)
	fmt.Fprintf(out, "work minutes:   %d\n", summary.WorkMinutes)
	fmt.Fprintf(out, "break minutes:  %d\n", summary.BreakMinutes)
	if !summary.PaletteValid {
		fmt.Fprintln(out, "palette:        no signature, defaults will be seeded on next start")
		return nil
	}

	rows := make([][]string, 0, len(summary.Slots))
	for slot, entry := range summary.Slots {
		name := fmt.Sprintf("%d", slot)
		if slot == summary.CapsSlot {
			name = "caps"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Color.WithValue(255).Hex())).Render("■■")
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", entry.Color.H),
			fmt.Sprintf("%d", entry.Color.S),
			fmt.Sprintf("%d", entry.Color.V),
			entry.Mode.String(),
			swatch,
		})
	}
	fmt.Fprintln(out, table.New().
		Border(lipgloss.NormalBorder()).
		Headers("slot", "hue", "sat", "val", "mode", "").
		Rows(rows...).
		Render())
	return nil
}

func resetEEPROM(cmd *cobra.Command, opts *options) error {
	settings, _, err := opts.loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	lock, err := platform.AcquireImageLock(settings.EEPROMPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	image := app.DefaultImage(settings.RuntimeConfig(), settings.Brightness)
	if err := storage.SaveImage(settings.EEPROMPath, image); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote defaults to %s\n", settings.EEPROMPath)
	return nil
}
