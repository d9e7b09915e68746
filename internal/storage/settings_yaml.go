package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"mid1lights/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Brightness     *int   `yaml:"brightness"`
	Reversed       *bool  `yaml:"reversed"`
	ScanIntervalMs int    `yaml:"scan_interval_ms"`
	MetricsAddr    string `yaml:"metrics_addr"`
	LaunchpadIn    string `yaml:"launchpad_in"`
	LaunchpadOut   string `yaml:"launchpad_out"`
	EEPROMPath     string `yaml:"eeprom_path"`
	KeymapPath     string `yaml:"keymap_path"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
}

// LoadSettings reads user preferences from the per-user config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from path. A missing file yields
// defaults; invalid fields keep their defaults.
func LoadSettingsFile(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the per-user config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to path.
func SaveSettingsFile(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	brightness := int(settings.Brightness)
	reversed := settings.Reversed
	fileData := yamlSettings{
		Brightness:     &brightness,
		Reversed:       &reversed,
		ScanIntervalMs: int(settings.ScanInterval / time.Millisecond),
		MetricsAddr:    settings.MetricsAddr,
		LaunchpadIn:    settings.LaunchpadIn,
		LaunchpadOut:   settings.LaunchpadOut,
		EEPROMPath:     settings.EEPROMPath,
		KeymapPath:     settings.KeymapPath,
		LogLevel:       settings.LogLevel,
		LogFormat:      settings.LogFormat,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the default settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, settingsFileName), nil
}

// ConfigDir returns the per-user directory for appName.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Brightness != nil && *fileData.Brightness >= 0 && *fileData.Brightness <= 255 {
		settings.Brightness = uint8(*fileData.Brightness)
	}
	if fileData.Reversed != nil {
		settings.Reversed = *fileData.Reversed
	}
	if fileData.ScanIntervalMs >= 1 && fileData.ScanIntervalMs <= 100 {
		settings.ScanInterval = time.Duration(fileData.ScanIntervalMs) * time.Millisecond
	}

	if fileData.MetricsAddr != "" {
		settings.MetricsAddr = fileData.MetricsAddr
	}
	if fileData.LaunchpadIn != "" {
		settings.LaunchpadIn = fileData.LaunchpadIn
	}
	if fileData.LaunchpadOut != "" {
		settings.LaunchpadOut = fileData.LaunchpadOut
	}
	if fileData.EEPROMPath != "" {
		settings.EEPROMPath = fileData.EEPROMPath
	}
	if fileData.KeymapPath != "" {
		settings.KeymapPath = fileData.KeymapPath
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.LogFormat == "text" || fileData.LogFormat == "json" {
		settings.LogFormat = fileData.LogFormat
	}
}
