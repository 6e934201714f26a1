package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		years    int
		months   int
		days     int
		expected time.Time
	}{
		{
			name:     "plain month addition",
			start:    date(2026, time.March, 10),
			months:   1,
			expected: date(2026, time.April, 10),
		},
		{
			name:     "january 31st clamps to end of february",
			start:    date(2026, time.January, 31),
			months:   1,
			expected: date(2026, time.February, 28),
		},
		{
			name:     "january 31st in a leap year clamps to the 29th",
			start:    date(2024, time.January, 31),
			months:   1,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "may 31st clamps to june 30th",
			start:    date(2026, time.May, 31),
			months:   1,
			expected: date(2026, time.June, 30),
		},
		{
			name:     "month overflow rolls the year forward",
			start:    date(2026, time.November, 15),
			months:   3,
			expected: date(2027, time.February, 15),
		},
		{
			name:     "leap day plus one year clamps to the 28th",
			start:    date(2024, time.February, 29),
			years:    1,
			expected: date(2025, time.February, 28),
		},
		{
			name:     "day addition after clamping",
			start:    date(2026, time.January, 31),
			months:   1,
			days:     1,
			expected: date(2026, time.March, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestAddPeriods(t *testing.T) {
	start := date(2026, time.June, 1)

	tests := []struct {
		name     string
		n        int
		period   BillingPeriod
		expected time.Time
		wantErr  bool
	}{
		{name: "daily", n: 10, period: BILLING_PERIOD_DAILY, expected: date(2026, time.June, 11)},
		{name: "weekly", n: 3, period: BILLING_PERIOD_WEEKLY, expected: date(2026, time.June, 22)},
		{name: "monthly", n: 2, period: BILLING_PERIOD_MONTHLY, expected: date(2026, time.August, 1)},
		{name: "annual", n: 1, period: BILLING_PERIOD_ANNUAL, expected: date(2027, time.June, 1)},
		{name: "invalid period", n: 1, period: BillingPeriod("HOURLY"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddPeriods(start, tt.n, tt.period)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-08-31 is a Monday.
	assert.Equal(t, 1, ISOWeekday(date(2026, time.August, 31)))
	assert.Equal(t, 5, ISOWeekday(date(2026, time.September, 4)))
	assert.Equal(t, 7, ISOWeekday(date(2026, time.August, 30)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, DaysInMonth(date(2026, time.February, 10)))
	assert.Equal(t, 29, DaysInMonth(date(2024, time.February, 10)))
	assert.Equal(t, 30, DaysInMonth(date(2026, time.April, 1)))
	assert.Equal(t, 31, DaysInMonth(date(2026, time.July, 15)))
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 366, DaysInYear(date(2024, time.June, 1)))
	assert.Equal(t, 365, DaysInYear(date(2026, time.June, 1)))
}

func TestSiteLocalConversion(t *testing.T) {
	instant := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	offset := 2 * 3600

	local := ToSiteLocal(instant, offset)
	assert.Equal(t, 11, local.Day())
	assert.Equal(t, 1, local.Hour())

	assert.True(t, ToUTC(local, offset).Equal(instant))
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 11, 1, 0, 0, 0, time.UTC)

	assert.False(t, SameCalendarDay(a, b, 0))
	// Both instants fall on March 11th two hours east of UTC.
	assert.True(t, SameCalendarDay(a, b, 2*3600))
}

func TestNormalizePaymentTime(t *testing.T) {
	local := time.Date(2026, time.June, 15, 18, 45, 12, 0, time.UTC)
	got := NormalizePaymentTime(local)

	assert.Equal(t, 3, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, 15, got.Day())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween(date(2026, time.June, 10), date(2026, time.June, 15)))
	assert.Equal(t, 0, DaysBetween(date(2026, time.June, 10), date(2026, time.June, 10)))
	assert.Equal(t, -3, DaysBetween(date(2026, time.June, 10), date(2026, time.June, 7)))

	// Partial days count by calendar day, not elapsed hours.
	a := time.Date(2026, time.June, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.June, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
}
