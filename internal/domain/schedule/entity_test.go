//go:build unit

package schedule_test

import (
	"testing"

	"ops-console/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		errIs error
	}{
		{name: "price_reset", key: "price_reset"},
		{name: "product_full_sync", key: "product_full_sync"},
		{name: "unknown key", key: "nightly_report", errIs: schedule.ErrUnknownKey},
		{name: "empty key", key: "", errIs: schedule.ErrUnknownKey},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			k, err := schedule.NewKey(c.key)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.key, k.String())
		})
	}
}

func TestKeyLabel(t *testing.T) {
	assert.Equal(t, "Price reset", schedule.KeyPriceReset.Label())
	assert.Equal(t, "Product full sync", schedule.KeyProductFullSync.Label())
}

func TestNewDayOfWeek(t *testing.T) {
	for _, valid := range []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"} {
		d, err := schedule.NewDayOfWeek(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, d.String())
	}

	for _, invalid := range []string{"mon", "Monday", "", "XXX"} {
		_, err := schedule.NewDayOfWeek(invalid)
		require.ErrorIs(t, err, schedule.ErrInvalidDayOfWeek)
	}
}

func TestNewTimeOfDay(t *testing.T) {
	cases := []struct {
		name   string
		hour   int
		minute int
		errIs  error
	}{
		{name: "midnight", hour: 0, minute: 0},
		{name: "end of day", hour: 23, minute: 59},
		{name: "hour below range", hour: -1, minute: 0, errIs: schedule.ErrInvalidHour},
		{name: "hour above range", hour: 24, minute: 0, errIs: schedule.ErrInvalidHour},
		{name: "minute below range", hour: 12, minute: -1, errIs: schedule.ErrInvalidMinute},
		{name: "minute above range", hour: 12, minute: 60, errIs: schedule.ErrInvalidMinute},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tod, err := schedule.NewTimeOfDay(c.hour, c.minute)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.hour, tod.Hour())
			assert.Equal(t, c.minute, tod.Minute())
		})
	}
}

func TestNewDefaultsTimezone(t *testing.T) {
	tod, err := schedule.NewTimeOfDay(9, 30)
	require.NoError(t, err)

	s := schedule.New(schedule.KeyPriceReset, true, schedule.Monday, tod, false, "")
	assert.Equal(t, schedule.DefaultTimezone, s.Timezone())

	s = schedule.New(schedule.KeyPriceReset, true, schedule.Monday, tod, false, "Pacific/Auckland")
	assert.Equal(t, "Pacific/Auckland", s.Timezone())
}

func TestDefaults(t *testing.T) {
	defaults := schedule.Defaults()
	require.Len(t, defaults, 2)

	priceReset := defaults[0]
	assert.Equal(t, schedule.KeyPriceReset, priceReset.Key())
	assert.False(t, priceReset.Enabled())
	assert.Equal(t, schedule.Wednesday, priceReset.DayOfWeek())
	assert.Equal(t, 20, priceReset.TimeOfDay().Hour())
	assert.Equal(t, 0, priceReset.TimeOfDay().Minute())
	assert.True(t, priceReset.Every2Weeks())

	fullSync := defaults[1]
	assert.Equal(t, schedule.KeyProductFullSync, fullSync.Key())
	assert.False(t, fullSync.Enabled())
	assert.Equal(t, schedule.Thursday, fullSync.DayOfWeek())
	assert.Equal(t, 8, fullSync.TimeOfDay().Hour())
	assert.Equal(t, 10, fullSync.TimeOfDay().Minute())
}
