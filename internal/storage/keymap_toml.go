package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mid1lights/internal/core/model"
)

//go:embed defaults/keymap.toml
var defaultKeymap []byte

// ActionKind identifies what a binding does.
type ActionKind int

const (
	ActionKey ActionKind = iota + 1
	ActionLayer
	ActionEncoder
	ActionCapsLock
)

// Action is a parsed keymap binding.
type Action struct {
	Kind      ActionKind
	Keycode   model.Keycode
	Layer     int
	Encoder   int
	Clockwise bool
}

func (action Action) String() string {
	switch action.Kind {
	case ActionKey:
		return action.Keycode.String()
	case ActionLayer:
		return fmt.Sprintf("layer:%d", action.Layer)
	case ActionEncoder:
		direction := "ccw"
		if action.Clockwise {
			direction = "cw"
		}
		return fmt.Sprintf("encoder:%d:%s", action.Encoder, direction)
	case ActionCapsLock:
		return "caps"
	default:
		return "none"
	}
}

// Keymap binds terminal keys and Launchpad pads to actions.
type Keymap struct {
	Keys      map[string]Action
	Launchpad map[uint8]Action
}

type tomlKeymap struct {
	Keys      map[string]string `toml:"keys"`
	Launchpad map[string]string `toml:"launchpad"`
}

// LoadKeymap reads a keymap file. An empty path selects the built-in map.
func LoadKeymap(path string) (Keymap, error) {
	if path == "" {
		return ParseKeymap(defaultKeymap)
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		return Keymap{}, fmt.Errorf("read keymap file: %w", err)
	}
	return ParseKeymap(rawData)
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	keymap, err := ParseKeymap(defaultKeymap)
	if err != nil {
		panic(fmt.Sprintf("built-in keymap: %v", err))
	}
	return keymap
}

// ParseKeymap decodes keymap TOML.
func ParseKeymap(data []byte) (Keymap, error) {
	var fileData tomlKeymap
	if err := toml.Unmarshal(data, &fileData); err != nil {
		return Keymap{}, fmt.Errorf("parse keymap toml: %w", err)
	}

	keymap := Keymap{
		Keys:      make(map[string]Action, len(fileData.Keys)),
		Launchpad: make(map[uint8]Action, len(fileData.Launchpad)),
	}
	var errs []error
	for key, raw := range fileData.Keys {
		action, err := ParseAction(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
			continue
		}
		keymap.Keys[key] = action
	}
	for note, raw := range fileData.Launchpad {
		number, err := strconv.ParseUint(note, 10, 8)
		if err != nil {
			errs = append(errs, fmt.Errorf("launchpad note %q: %w", note, err))
			continue
		}
		action, err := ParseAction(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("launchpad note %q: %w", note, err))
			continue
		}
		keymap.Launchpad[uint8(number)] = action
	}
	if len(errs) > 0 {
		return keymap, errors.Join(errs...)
	}
	return keymap, nil
}

// ParseAction decodes one binding value.
func ParseAction(raw string) (Action, error) {
	value := strings.TrimSpace(raw)
	lower := strings.ToLower(value)

	switch {
	case lower == "caps":
		return Action{Kind: ActionCapsLock}, nil
	case strings.HasPrefix(lower, "layer:"):
		layer, err := strconv.Atoi(strings.TrimPrefix(lower, "layer:"))
		if err != nil || layer < 0 || layer > 31 {
			return Action{}, fmt.Errorf("invalid layer in %q", raw)
		}
		return Action{Kind: ActionLayer, Layer: layer}, nil
	case strings.HasPrefix(lower, "encoder:"):
		parts := strings.Split(lower, ":")
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("invalid encoder binding %q", raw)
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil || index < 0 {
			return Action{}, fmt.Errorf("invalid encoder index in %q", raw)
		}
		switch parts[2] {
		case "cw":
			return Action{Kind: ActionEncoder, Encoder: index, Clockwise: true}, nil
		case "ccw":
			return Action{Kind: ActionEncoder, Encoder: index}, nil
		}
		return Action{}, fmt.Errorf("invalid encoder direction in %q", raw)
	}

	code, ok := model.ParseKeycode(value)
	if !ok {
		return Action{}, fmt.Errorf("unknown keycode %q", raw)
	}
	return Action{Kind: ActionKey, Keycode: code}, nil
}
