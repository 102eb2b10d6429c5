package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
}

func TestParseDateInLocation(t *testing.T) {
	got, err := ParseDateInLocation("2024-03-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDateInLocation("05/03/2024", time.UTC)
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	night := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	next := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, next))
	assert.Equal(t, "2024-01-01", DayKey(night))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartOfDay(night))
}

func TestIsAfterDay(t *testing.T) {
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		want bool
	}{
		{"same day later hour", time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC), false},
		{"same day earlier hour", time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC), false},
		{"next day", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), true},
		{"previous day", time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), false},
		{"next month earlier day", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"next year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAfterDay(tt.a, base))
		})
	}
}
