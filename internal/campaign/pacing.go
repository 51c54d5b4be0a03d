package campaign

import (
	"time"
)

// PacingSignal is the derived verdict on live call performance. It is
// recomputed from the rolling window on demand, never stored.
type PacingSignal string

const (
	PacingOnPace            PacingSignal = "on_pace"
	PacingBelowConnectRate  PacingSignal = "below_connect_rate"
	PacingBelowInterestRate PacingSignal = "below_interest_rate"
	PacingBelowVelocity     PacingSignal = "below_velocity"
)

// CallOutcome is one completed call as reported by the dialer boundary.
type CallOutcome struct {
	ContactID string            `json:"contact_id"`
	Status    ContactCallStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
}

type outcomeSample struct {
	at         time.Time
	connected  bool
	interested bool
}

// PacingMonitor keeps the trailing window of call outcomes and compares the
// derived rates against the configured thresholds. It is not safe for
// concurrent use on its own; the engine serializes access.
type PacingMonitor struct {
	cfg     CapacityConfig
	samples []outcomeSample
}

func NewPacingMonitor(cfg CapacityConfig) *PacingMonitor {
	return &PacingMonitor{cfg: cfg}
}

// Record appends an outcome to the window and evicts samples older than the
// failure window. Malformed events are the caller's problem; by the time an
// outcome reaches the monitor it is already validated.
func (m *PacingMonitor) Record(ev CallOutcome) {
	m.samples = append(m.samples, outcomeSample{
		at:         ev.Timestamp,
		connected:  ev.Status.Connected(),
		interested: ev.Status.Interested(),
	})
	m.evict(ev.Timestamp)
}

func (m *PacingMonitor) window() time.Duration {
	return time.Duration(m.cfg.FailureWindowHours * float64(time.Hour))
}

func (m *PacingMonitor) evict(now time.Time) {
	cutoff := now.Add(-m.window())
	i := 0
	for i < len(m.samples) && m.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		m.samples = append(m.samples[:0], m.samples[i:]...)
	}
}

// SampleCount returns the number of outcomes currently in the window.
func (m *PacingMonitor) SampleCount() int {
	return len(m.samples)
}

// Signal derives the pacing verdict at the given instant. An empty window is
// on pace: with no data there is nothing to alarm on. Velocity is judged
// over the elapsed span of the window and skipped until at least one call
// cycle has passed, so a fresh window cannot trip a false low-velocity alarm.
func (m *PacingMonitor) Signal(now time.Time) PacingSignal {
	m.evict(now)
	total := len(m.samples)
	if total == 0 {
		return PacingOnPace
	}

	connects, interested := 0, 0
	for _, s := range m.samples {
		if s.connected {
			connects++
		}
		if s.interested {
			interested++
		}
	}

	if float64(connects)/float64(total) < m.cfg.ConnectRateThreshold {
		return PacingBelowConnectRate
	}
	if float64(interested)/float64(total) < m.cfg.InterestRateThreshold {
		return PacingBelowInterestRate
	}

	elapsed := now.Sub(m.samples[0].at).Hours()
	minSpan := m.cfg.AvgCallCycleMinutes / 60
	if elapsed >= minSpan && elapsed > 0 {
		if float64(total)/elapsed < m.cfg.LowVelocityThreshold {
			return PacingBelowVelocity
		}
	}
	return PacingOnPace
}
