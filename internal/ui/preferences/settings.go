// Package preferences holds the host settings a user can edit.
package preferences

import (
	"time"

	"mid1lights/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Brightness   uint8
	Reversed     bool
	ScanInterval time.Duration

	MetricsAddr  string
	LaunchpadIn  string
	LaunchpadOut string
	EEPROMPath   string
	KeymapPath   string
	LogLevel     string
	LogFormat    string
}

// DefaultSettings returns default settings for the simulator.
func DefaultSettings() Settings {
	return Settings{
		Brightness:   200,
		Reversed:     true,
		ScanInterval: 10 * time.Millisecond,
		LaunchpadIn:  "Launchpad",
		LaunchpadOut: "Launchpad",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// RuntimeConfig converts settings to the lighting runtime configuration.
func (settings Settings) RuntimeConfig() model.RuntimeConfig {
	config := model.DefaultRuntimeConfig()
	config.Bar.CountdownReversed = settings.Reversed
	config.Bar.SelectionReversed = settings.Reversed
	return config
}
