package pomodoro

import "time"

// MaxMinutes is the longest configurable period.
const MaxMinutes = 75

const minute = time.Minute

// MinutesCeil rounds remaining up to whole minutes, capped at MaxMinutes.
func MinutesCeil(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	minutes := int((remaining + minute - 1) / minute)
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return minutes
}

// PatternIndex selects the countdown pattern for a minute count: index 0
// for the last minute, then one index per five minute bucket.
func PatternIndex(minutes int) int {
	if minutes <= 1 {
		return 0
	}
	index := (minutes + 4) / 5
	if index < 1 {
		return 1
	}
	if index > 15 {
		return 15
	}
	return index
}

// ClampMinutes limits a setting to 1..MaxMinutes.
func ClampMinutes(minutes int) uint8 {
	if minutes < 1 {
		return 1
	}
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return uint8(minutes)
}

// StepDownSetting lowers a setting by five minutes, bottoming out at 1.
func StepDownSetting(minutes uint8) uint8 {
	if minutes > 5 {
		return minutes - 5
	}
	return 1
}

// StepUpSetting raises a setting by five minutes. 1 steps to 5.
func StepUpSetting(minutes uint8) uint8 {
	if minutes <= 1 {
		return 5
	}
	return ClampMinutes(int(minutes) + 5)
}

// StepDownRemaining moves remaining time to the previous five minute
// boundary, never below five minutes.
func StepDownRemaining(remaining time.Duration) time.Duration {
	minutes := int(remaining / minute)
	if minutes <= 5 {
		return 5 * minute
	}
	if remaining%(5*minute) == 0 {
		return time.Duration(minutes-5) * minute
	}
	return time.Duration(minutes/5*5) * minute
}

// StepUpRemaining moves remaining time to the next five minute boundary,
// never above MaxMinutes.
func StepUpRemaining(remaining time.Duration) time.Duration {
	minutes := int(remaining / minute)
	if minutes >= MaxMinutes {
		return MaxMinutes * minute
	}
	if remaining%(5*minute) == 0 {
		return time.Duration(minutes+5) * minute
	}
	next := (minutes + 5) / 5 * 5
	if next < 5 {
		next = 5
	}
	if next > MaxMinutes {
		next = MaxMinutes
	}
	return time.Duration(next) * minute
}

// SettingFromRemaining rounds remaining time to the nearest five minutes for
// storing as the new setting.
func SettingFromRemaining(remaining time.Duration) uint8 {
	return ClampMinutes((MinutesCeil(remaining) + 2) / 5 * 5)
}

func pulsePeriod(minutes int) time.Duration {
	switch {
	case minutes >= 5:
		return 1300 * time.Millisecond
	case minutes == 4:
		return 1000 * time.Millisecond
	case minutes == 3:
		return 800 * time.Millisecond
	case minutes == 2:
		return 600 * time.Millisecond
	default:
		return 450 * time.Millisecond
	}
}
