package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	d := Date(time.Date(2026, 3, 15, 23, 59, 59, 999, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "one day apart",
			from: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "negative when to is earlier",
			from: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			want: -9,
		},
		{
			name: "full year",
			from: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			want: 365,
		},
		{
			name: "leap year",
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestToday(t *testing.T) {
	today := Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, time.UTC, today.Location())
}
