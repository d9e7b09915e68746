package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const eepromFileName = "eeprom.bin"

// ErrImageSize is returned when an EEPROM image does not match the expected
// size.
var ErrImageSize = errors.New("eeprom image has wrong size")

// EEPROMPath returns the default image location for appName.
func EEPROMPath(appName string) (string, error) {
	configDir, err := ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, eepromFileName), nil
}

// LoadImage reads an EEPROM image of size bytes. A missing file returns
// nil without error so callers start from erased memory.
func LoadImage(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read eeprom image: %w", err)
	}
	if len(data) != size {
		return nil, fmt.Errorf("load %s: %w (got %d bytes, want %d)", path, ErrImageSize, len(data), size)
	}
	return data, nil
}

// SaveImage writes an EEPROM image atomically.
func SaveImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create eeprom directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write eeprom image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace eeprom image: %w", err)
	}
	return nil
}
