// Package metrics provides Prometheus metrics for the lighting runtime.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mid1lights"

var (
	nvmWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "nvm",
		Name:      "byte_writes_total",
		Help:      "Bytes physically written to non-volatile memory",
	})

	pomodoroTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pomodoro",
		Name:      "transitions_total",
		Help:      "Pomodoro state transitions by target state",
	}, []string{"state"})

	pomodoroCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pomodoro",
		Name:      "periods_completed_total",
		Help:      "Periods that ran down to zero by kind",
	}, []string{"kind"})

	pomodoroRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pomodoro",
		Name:      "remaining_seconds",
		Help:      "Time left in the running period",
	})

	keyEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "input",
		Name:      "key_events_total",
		Help:      "Key presses delivered to the runtime by outcome",
	}, []string{"outcome"})

	pickerSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "picker",
		Name:      "sessions_total",
		Help:      "Color picker sessions that went idle or were released",
	})

	framesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "driver",
		Name:      "frames_published_total",
		Help:      "LED frames published to front ends",
	})
)

// RecordNVMWrite counts one physical byte write.
func RecordNVMWrite() {
	nvmWrites.Inc()
}

// RecordTransition counts a pomodoro state change.
func RecordTransition(state string) {
	pomodoroTransitions.WithLabelValues(state).Inc()
}

// RecordPeriodCompleted counts a period that ran to zero.
func RecordPeriodCompleted(kind string) {
	pomodoroCompleted.WithLabelValues(kind).Inc()
}

// SetRemaining publishes the time left in the running period.
func SetRemaining(remaining time.Duration) {
	pomodoroRemaining.Set(remaining.Seconds())
}

// RecordKeyEvent counts a key press as consumed or passed through.
func RecordKeyEvent(consumed bool) {
	outcome := "passed"
	if consumed {
		outcome = "consumed"
	}
	keyEvents.WithLabelValues(outcome).Inc()
}

// RecordFrame counts a published LED frame.
func RecordFrame() {
	framesPublished.Inc()
}

// RecordPickerSession counts a finished color picker session.
func RecordPickerSession() {
	pickerSessions.Inc()
}
