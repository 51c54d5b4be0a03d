package campaign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
)

func TestWeeklyCapacity(t *testing.T) {
	cfg := campaign.DefaultCapacityConfig()
	cfg.MaxCallsPerDay = 35
	cfg.WorkingDaysPerWeek = 5

	assert.Equal(t, 175, cfg.WeeklyCapacity())
}

func TestWeeklyCallbackReserve(t *testing.T) {
	tests := map[string]struct {
		maxPerDay int
		days      int
		percent   float64
		expected  int
	}{
		// 175 * 0.15 = 26.25, rounds up to 27 — never understate the reserve
		"RoundsUp":       {maxPerDay: 35, days: 5, percent: 15, expected: 27},
		"ZeroPercent":    {maxPerDay: 35, days: 5, percent: 0, expected: 0},
		"FullReserve":    {maxPerDay: 35, days: 5, percent: 100, expected: 175},
		"ExactMultiple":  {maxPerDay: 40, days: 5, percent: 10, expected: 20},
		"SmallCampaign":  {maxPerDay: 10, days: 3, percent: 33, expected: 10}, // 9.9 -> 10
		"TinyRemainder":  {maxPerDay: 20, days: 5, percent: 1, expected: 1},   // 1.0 -> 1
		"JustOverWhole":  {maxPerDay: 21, days: 5, percent: 20, expected: 21}, // 21.0 -> 21
		"FractionBarely": {maxPerDay: 33, days: 5, percent: 15, expected: 25}, // 24.75 -> 25
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := campaign.DefaultCapacityConfig()
			cfg.MaxCallsPerDay = tc.maxPerDay
			cfg.WorkingDaysPerWeek = tc.days
			cfg.CallbackReservePercent = tc.percent

			assert.Equal(t, tc.expected, cfg.WeeklyCallbackReserve())
		})
	}
}

func TestCapacityConfigValidate(t *testing.T) {
	valid := campaign.DefaultCapacityConfig()
	require.NoError(t, valid.Validate())

	tests := map[string]struct {
		mutate  func(*campaign.CapacityConfig)
		wantErr error
	}{
		"NegativeReserve":     {func(c *campaign.CapacityConfig) { c.CallbackReservePercent = -1 }, campaign.ErrReservePercent},
		"ReserveOver100":      {func(c *campaign.CapacityConfig) { c.CallbackReservePercent = 100.5 }, campaign.ErrReservePercent},
		"ZeroMaxCalls":        {func(c *campaign.CapacityConfig) { c.MaxCallsPerDay = 0 }, campaign.ErrNoDailyCapacity},
		"ZeroWorkingDays":     {func(c *campaign.CapacityConfig) { c.WorkingDaysPerWeek = 0 }, campaign.ErrNoWorkingDays},
		"LunchBeforeStart":    {func(c *campaign.CapacityConfig) { c.LunchStartHour = 7 }, campaign.ErrHourOrder},
		"LunchEndsAfterDay":   {func(c *campaign.CapacityConfig) { c.LunchEndHour = 18 }, campaign.ErrHourOrder},
		"LunchInverted":       {func(c *campaign.CapacityConfig) { c.LunchStartHour, c.LunchEndHour = 13, 12 }, campaign.ErrHourOrder},
		"StartAfterEnd":       {func(c *campaign.CapacityConfig) { c.WorkStartHour = 18 }, campaign.ErrHourOrder},
		"ZeroCallCycle":       {func(c *campaign.CapacityConfig) { c.AvgCallCycleMinutes = 0 }, campaign.ErrCallCycle},
		"LunchEqualsWorkEnd":  {func(c *campaign.CapacityConfig) { c.LunchEndHour = c.WorkEndHour }, campaign.ErrHourOrder},
		"LunchZeroWidth":      {func(c *campaign.CapacityConfig) { c.LunchEndHour = c.LunchStartHour }, campaign.ErrHourOrder},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := campaign.DefaultCapacityConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateRejectsBadBufferAndWindow(t *testing.T) {
	cfg := campaign.DefaultCapacityConfig()
	cfg.BufferMinutesPerHour = 60
	assert.Error(t, cfg.Validate())

	cfg = campaign.DefaultCapacityConfig()
	cfg.FailureWindowHours = 0
	assert.Error(t, cfg.Validate())
}

func TestCallsPerHour(t *testing.T) {
	cfg := campaign.DefaultCapacityConfig()
	cfg.AvgCallCycleMinutes = 10
	cfg.BufferMinutesPerHour = 10

	assert.InDelta(t, 5.0, cfg.CallsPerHour(), 1e-9)
}
