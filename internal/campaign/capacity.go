package campaign

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrReservePercent  = errors.New("callback reserve percent must be between 0 and 100")
	ErrHourOrder       = errors.New("hours must satisfy work start < lunch start < lunch end < work end")
	ErrNoDailyCapacity = errors.New("max calls per day must be positive")
	ErrNoWorkingDays   = errors.New("working days per week must be positive")
	ErrCallCycle       = errors.New("average call cycle minutes must be positive")
)

// CapacityConfig is the static configuration for a call-campaign day. It is
// loaded once at startup and validated before the engine is constructed.
type CapacityConfig struct {
	MaxCallsPerDay         int     `yaml:"max_calls_per_day" json:"max_calls_per_day"`
	CallbackReservePercent float64 `yaml:"callback_reserve_percent" json:"callback_reserve_percent"`
	WorkingDaysPerWeek     int     `yaml:"working_days_per_week" json:"working_days_per_week"`
	WorkStartHour          float64 `yaml:"work_start_hour" json:"work_start_hour"`
	WorkEndHour            float64 `yaml:"work_end_hour" json:"work_end_hour"`
	LunchStartHour         float64 `yaml:"lunch_start_hour" json:"lunch_start_hour"`
	LunchEndHour           float64 `yaml:"lunch_end_hour" json:"lunch_end_hour"`
	AvgCallCycleMinutes    float64 `yaml:"avg_call_cycle_minutes" json:"avg_call_cycle_minutes"`
	BufferMinutesPerHour   float64 `yaml:"buffer_minutes_per_hour" json:"buffer_minutes_per_hour"`

	ConnectRateThreshold  float64 `yaml:"connect_rate_threshold" json:"connect_rate_threshold"`
	InterestRateThreshold float64 `yaml:"interest_rate_threshold" json:"interest_rate_threshold"`
	LowVelocityThreshold  float64 `yaml:"low_velocity_threshold" json:"low_velocity_threshold"`
	FailureWindowHours    float64 `yaml:"failure_window_hours" json:"failure_window_hours"`
}

// DefaultCapacityConfig returns the configuration Dannia's desk actually runs with.
func DefaultCapacityConfig() CapacityConfig {
	return CapacityConfig{
		MaxCallsPerDay:         35,
		CallbackReservePercent: 15,
		WorkingDaysPerWeek:     5,
		WorkStartHour:          8,
		WorkEndHour:            17,
		LunchStartHour:         12,
		LunchEndHour:           13,
		AvgCallCycleMinutes:    7,
		BufferMinutesPerHour:   10,
		ConnectRateThreshold:   0.25,
		InterestRateThreshold:  0.10,
		LowVelocityThreshold:   4,
		FailureWindowHours:     2,
	}
}

// Validate rejects inconsistent configuration at load time. Nothing is clamped.
func (c CapacityConfig) Validate() error {
	if c.MaxCallsPerDay <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoDailyCapacity, c.MaxCallsPerDay)
	}
	if c.WorkingDaysPerWeek <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoWorkingDays, c.WorkingDaysPerWeek)
	}
	if c.CallbackReservePercent < 0 || c.CallbackReservePercent > 100 {
		return fmt.Errorf("%w: got %v", ErrReservePercent, c.CallbackReservePercent)
	}
	if !(c.WorkStartHour < c.LunchStartHour && c.LunchStartHour < c.LunchEndHour && c.LunchEndHour < c.WorkEndHour) {
		return fmt.Errorf("%w: start=%v lunch=%v-%v end=%v",
			ErrHourOrder, c.WorkStartHour, c.LunchStartHour, c.LunchEndHour, c.WorkEndHour)
	}
	if c.AvgCallCycleMinutes <= 0 {
		return fmt.Errorf("%w: got %v", ErrCallCycle, c.AvgCallCycleMinutes)
	}
	if c.BufferMinutesPerHour < 0 || c.BufferMinutesPerHour >= 60 {
		return fmt.Errorf("buffer minutes per hour must be in [0,60): got %v", c.BufferMinutesPerHour)
	}
	if c.FailureWindowHours <= 0 {
		return fmt.Errorf("failure window hours must be positive: got %v", c.FailureWindowHours)
	}
	return nil
}

// WeeklyCapacity is the total dialable slots in a working week.
func (c CapacityConfig) WeeklyCapacity() int {
	return c.WorkingDaysPerWeek * c.MaxCallsPerDay
}

// WeeklyCallbackReserve is the slice of the weekly capacity held back for
// callbacks. Rounds up so the reserve is never understated.
func (c CapacityConfig) WeeklyCallbackReserve() int {
	return int(math.Ceil(float64(c.WeeklyCapacity()) * c.CallbackReservePercent / 100))
}

// CallsPerHour is the sustainable dial rate after the per-hour buffer is taken out.
func (c CapacityConfig) CallsPerHour() float64 {
	return (60 - c.BufferMinutesPerHour) / c.AvgCallCycleMinutes
}
