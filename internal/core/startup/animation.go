// Package startup plays the boot roll animation on the countdown bar.
package startup

import (
	"time"

	"mid1lights/internal/core/host"
	"mid1lights/internal/core/ledbar"
	"mid1lights/internal/core/model"
	"mid1lights/internal/core/nvram"
	"mid1lights/internal/logging"
)

// Animation rolls a highlight across the bar several times, each roll a
// little brighter, and finishes by filling the bar.
type Animation struct {
	config    model.StartupConfig
	bar       *ledbar.Renderer
	lighting  host.Lighting
	clock     host.Clock
	settings  nvram.Userspace
	logger    logging.Logger
	enabled   bool
	active    bool
	startedAt time.Duration
}

func New(config model.StartupConfig, bar *ledbar.Renderer, lighting host.Lighting, clock host.Clock, settings nvram.Userspace, logger logging.Logger) *Animation {
	return &Animation{
		config:   config,
		bar:      bar,
		lighting: lighting,
		clock:    clock,
		settings: settings,
		logger:   logger,
		enabled:  true,
	}
}

// LoadFlag reads the persisted enable flag. A never written flag enables
// the animation and stores that choice.
func (animation *Animation) LoadFlag() {
	enabled, initialised := animation.settings.BootFlag()
	if !initialised {
		animation.settings.SetBootFlag(true)
		enabled = true
	}
	animation.enabled = enabled
}

func (animation *Animation) Enabled() bool {
	return animation.enabled
}

// Toggle flips and persists the enable flag, returning the new value.
func (animation *Animation) Toggle() bool {
	animation.enabled = !animation.enabled
	animation.settings.SetBootFlag(animation.enabled)
	animation.logger.Info("boot animation toggled", "enabled", animation.enabled)
	return animation.enabled
}

// Begin starts the animation. It restarts one already in progress.
func (animation *Animation) Begin() {
	animation.active = true
	animation.startedAt = animation.clock.Now()
}

func (animation *Animation) Active() bool {
	return animation.active
}

// Duration returns the total running time.
func (animation *Animation) Duration() time.Duration {
	return animation.config.RollDuration * time.Duration(animation.config.Rolls)
}

// Tick paints the current frame. It returns false, painting nothing, once
// the animation has finished.
func (animation *Animation) Tick() bool {
	if !animation.active {
		return false
	}
	elapsed := host.Since(animation.clock, animation.startedAt)
	if elapsed >= animation.Duration() {
		animation.active = false
		return false
	}

	count := animation.bar.Len()
	stepLength := animation.config.RollDuration / time.Duration(count)
	if stepLength <= 0 {
		stepLength = time.Millisecond
	}
	totalSteps := animation.config.Rolls * count
	step := int(elapsed / stepLength)
	if step >= totalSteps {
		step = totalSteps - 1
	}
	roll := step / count
	head := step % count

	target := animation.lighting.Value()
	color := animation.config.Color

	if roll == animation.config.Rolls-1 {
		baseline := uint8(int(target) * 3 / 4)
		animation.bar.PaintWith(func(position int) model.HSV {
			if position <= head {
				return color.WithValue(target)
			}
			return color.WithValue(baseline)
		})
		return true
	}

	base := int(target) * roll / animation.config.Rolls
	highlight := base + int(target)/3
	if highlight > int(target) {
		highlight = int(target)
	}
	animation.bar.PaintWith(func(position int) model.HSV {
		if position == head {
			return color.WithValue(uint8(highlight))
		}
		return color.WithValue(uint8(base))
	})
	return true
}
