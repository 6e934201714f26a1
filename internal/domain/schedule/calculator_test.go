package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/types"
)

func monthlyConfig(sync types.SyncSpec) *product.BillingConfig {
	return &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_MONTHLY,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(30),
		Sync:           sync,
	}
}

func dateContext(reference time.Time, graceDays int) types.DateContext {
	return types.DateContext{
		ReferenceInstant: reference,
		GracePeriodDays:  graceDays,
		ProrationMode:    types.ProrationModeNone,
		SyncEnabled:      true,
		PriceDecimals:    2,
	}
}

func utc(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestFirstPaymentDateMonthDay(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		syncDay   int
		reference time.Time
		graceDays int
		expected  time.Time
	}{
		{
			name:      "reference past the payment day with no grace pushes to next month",
			syncDay:   15,
			reference: utc(2026, time.May, 20, 10),
			expected:  utc(2026, time.June, 15, 3),
		},
		{
			name:      "reference just before the payment day inside the grace window",
			syncDay:   15,
			reference: utc(2026, time.May, 14, 10),
			graceDays: 2,
			expected:  utc(2026, time.May, 15, 3),
		},
		{
			name:      "reference on the payment day itself",
			syncDay:   15,
			reference: utc(2026, time.May, 15, 10),
			expected:  utc(2026, time.May, 15, 3),
		},
		{
			name:      "payment day just passed inside the grace window",
			syncDay:   15,
			reference: utc(2026, time.May, 16, 10),
			graceDays: 2,
			expected:  utc(2026, time.June, 15, 3),
		},
		{
			name:      "day 28 resolves to the last day of february",
			syncDay:   types.SyncLastDayOfMonth,
			reference: utc(2026, time.February, 10, 10),
			expected:  utc(2026, time.February, 28, 3),
		},
		{
			name:      "day 28 resolves to the 31st in a long month",
			syncDay:   types.SyncLastDayOfMonth,
			reference: utc(2026, time.March, 10, 10),
			expected:  utc(2026, time.March, 31, 3),
		},
		{
			name:      "december reference rolls into the next year",
			syncDay:   15,
			reference: utc(2026, time.December, 20, 10),
			expected:  utc(2027, time.January, 15, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(nil)
			cfg := monthlyConfig(types.MonthDaySync(tt.syncDay))
			dctx := dateContext(tt.reference, tt.graceDays)

			got, ok := calc.FirstPaymentDate(ctx, cfg, dctx, tt.reference)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestFirstPaymentDateWeekday(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(nil)

	// Friday sync; 2026-08-26 is a Wednesday.
	cfg := monthlyConfig(types.WeekdaySync(5))
	cfg.PeriodUnit = types.BILLING_PERIOD_WEEKLY

	dctx := dateContext(utc(2026, time.August, 26, 10), 0)
	got, ok := calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.August, 28, 3)), "got %s", got)

	// With a grace window the imminent Friday still counts even for a
	// two-week interval.
	calc = NewCalculator(nil)
	cfg.IntervalCount = 2
	dctx = dateContext(utc(2026, time.August, 26, 10), 2)
	got, ok = calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.August, 28, 3)), "got %s", got)

	// Outside the window the first occurrence is pushed out by the
	// remaining interval.
	calc = NewCalculator(nil)
	dctx = dateContext(utc(2026, time.August, 22, 10), 0)
	got, ok = calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.September, 4, 3)), "got %s", got)
}

func TestFirstPaymentDateYearDate(t *testing.T) {
	ctx := context.Background()

	cfg := &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_ANNUAL,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(120),
		Sync:           types.YearDateSync(2, 29),
	}

	// February 29th degrades to the 28th outside leap years.
	calc := NewCalculator(nil)
	dctx := dateContext(utc(2026, time.January, 10, 10), 0)
	got, ok := calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.February, 28, 3)), "got %s", got)

	// Past the anchor the payment rolls into the next year, which is a
	// leap year and keeps the 29th.
	calc = NewCalculator(nil)
	dctx = dateContext(utc(2027, time.March, 10, 10), 0)
	got, ok = calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2028, time.February, 29, 3)), "got %s", got)
}

func TestFirstPaymentDateTrialAdvancesReference(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(nil)

	cfg := monthlyConfig(types.MonthDaySync(15))
	cfg.TrialUnit = types.BILLING_PERIOD_DAILY
	cfg.TrialLength = 7

	// Trial runs May 10th to 17th, so the May 15th occurrence is gone.
	dctx := dateContext(utc(2026, time.May, 10, 10), 0)
	got, ok := calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.June, 15, 3)), "got %s", got)
}

func TestFirstPaymentDateSiteOffset(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(nil)

	cfg := monthlyConfig(types.MonthDaySync(15))
	dctx := dateContext(utc(2026, time.May, 10, 10), 0)
	dctx.SiteUTCOffsetSeconds = 2 * 3600

	// 03:00 site-local is 01:00 UTC.
	got, ok := calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant)
	require.True(t, ok)
	assert.True(t, got.Equal(utc(2026, time.May, 15, 1)), "got %s", got)
}

func TestFirstPaymentDateNotSynced(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(nil)
	reference := utc(2026, time.May, 10, 10)

	_, ok := calc.FirstPaymentDate(ctx, monthlyConfig(types.NoSync()), dateContext(reference, 0), reference)
	assert.False(t, ok)

	// Daily products never synchronize.
	daily := monthlyConfig(types.MonthDaySync(15))
	daily.PeriodUnit = types.BILLING_PERIOD_DAILY
	_, ok = calc.FirstPaymentDate(ctx, daily, dateContext(reference, 0), reference)
	assert.False(t, ok)

	// Store-wide synchronization switch wins over product config.
	dctx := dateContext(reference, 0)
	dctx.SyncEnabled = false
	_, ok = calc.FirstPaymentDate(ctx, monthlyConfig(types.MonthDaySync(15)), dctx, reference)
	assert.False(t, ok)
}

func TestComputeSchedule(t *testing.T) {
	ctx := context.Background()
	reference := utc(2026, time.June, 1, 10)

	t.Run("plain monthly subscription", func(t *testing.T) {
		calc := NewCalculator(nil)
		cfg := monthlyConfig(types.NoSync())

		s, err := calc.ComputeSchedule(ctx, cfg, dateContext(reference, 0))
		require.NoError(t, err)
		assert.True(t, s.StartDate.Equal(reference))
		assert.True(t, s.TrialEndDate.IsZero())
		assert.True(t, s.FirstPaymentDate.IsZero())
		assert.True(t, s.NextPaymentDate.Equal(utc(2026, time.July, 1, 10)))
		assert.True(t, s.EndDate.IsZero())
		assert.True(t, s.HasMoreThanOnePayment())
	})

	t.Run("trial sets the next payment to trial expiry", func(t *testing.T) {
		calc := NewCalculator(nil)
		cfg := monthlyConfig(types.NoSync())
		cfg.TrialUnit = types.BILLING_PERIOD_DAILY
		cfg.TrialLength = 7

		s, err := calc.ComputeSchedule(ctx, cfg, dateContext(reference, 0))
		require.NoError(t, err)
		assert.True(t, s.TrialEndDate.Equal(utc(2026, time.June, 8, 10)))
		assert.True(t, s.NextPaymentDate.Equal(s.TrialEndDate))
	})

	t.Run("length within one interval means a single payment", func(t *testing.T) {
		calc := NewCalculator(nil)
		cfg := monthlyConfig(types.NoSync())
		cfg.LengthInPeriods = 1

		s, err := calc.ComputeSchedule(ctx, cfg, dateContext(reference, 0))
		require.NoError(t, err)
		assert.True(t, s.NextPaymentDate.IsZero())
		assert.False(t, s.HasMoreThanOnePayment())
		assert.True(t, s.EndDate.Equal(utc(2026, time.July, 1, 10)))
	})

	t.Run("end date anchors on the synchronized first payment", func(t *testing.T) {
		calc := NewCalculator(nil)
		cfg := monthlyConfig(types.MonthDaySync(15))
		cfg.LengthInPeriods = 12

		s, err := calc.ComputeSchedule(ctx, cfg, dateContext(reference, 0))
		require.NoError(t, err)
		assert.True(t, s.FirstPaymentDate.Equal(utc(2026, time.June, 15, 3)))
		assert.True(t, s.NextPaymentDate.Equal(s.FirstPaymentDate))
		assert.True(t, s.EndDate.Equal(utc(2027, time.June, 15, 3)))
	})

	t.Run("nil config is rejected", func(t *testing.T) {
		calc := NewCalculator(nil)
		_, err := calc.ComputeSchedule(ctx, nil, dateContext(reference, 0))
		require.Error(t, err)
	})
}
