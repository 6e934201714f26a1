package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/subscart/subscart/internal/cache"
	"github.com/subscart/subscart/internal/domain/product"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/logger"
	"github.com/subscart/subscart/internal/types"
)

// Calculator resolves the calendar dates of a product's payments:
// the synchronized first payment, trial expiry and the full schedule a
// recurring group is built from.
//
// A calculator instance is scoped to one totals pass; synchronized dates
// are memoized per (config, fromInstant) inside the pass and never
// across passes.
type Calculator interface {
	// FirstPaymentDate returns the synchronized date of the first
	// payment, honoring trials and the grace-period window. The second
	// return is false when the product does not synchronize at all.
	FirstPaymentDate(ctx context.Context, cfg *product.BillingConfig, dctx types.DateContext, from time.Time) (time.Time, bool)

	// TrialEndDate returns the instant the product's free trial expires,
	// or from itself when there is no trial.
	TrialEndDate(cfg *product.BillingConfig, from time.Time) time.Time

	// ComputeSchedule resolves the full billing schedule starting at the
	// pass reference instant.
	ComputeSchedule(ctx context.Context, cfg *product.BillingConfig, dctx types.DateContext) (*BillingSchedule, error)
}

type calculator struct {
	memo   cache.Cache
	logger *logger.Logger
}

// NewCalculator creates a pass-scoped schedule calculator with a fresh
// memoization cache.
func NewCalculator(log *logger.Logger) Calculator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &calculator{
		memo:   cache.NewInMemoryCache(),
		logger: log,
	}
}

func (c *calculator) TrialEndDate(cfg *product.BillingConfig, from time.Time) time.Time {
	if !cfg.HasTrial() {
		return from
	}
	end, err := types.AddPeriods(from, cfg.TrialLength, cfg.TrialUnit)
	if err != nil {
		c.logger.Warnw("trial end date fell back to reference instant",
			"trial_unit", cfg.TrialUnit,
			"error", err)
		return from
	}
	return end
}

func (c *calculator) FirstPaymentDate(ctx context.Context, cfg *product.BillingConfig, dctx types.DateContext, from time.Time) (time.Time, bool) {
	if !dctx.SyncEnabled || !cfg.IsSynced() {
		return time.Time{}, false
	}

	key := memoKey(cfg, from)
	if v, ok := c.memo.Get(ctx, key); ok {
		return v.(time.Time), true
	}

	start := from
	if cfg.HasTrial() {
		// A synchronized first charge never precedes trial end.
		start = c.TrialEndDate(cfg, from)
	}

	local := types.ToSiteLocal(start, dctx.SiteUTCOffsetSeconds)
	day := types.MidnightOf(local)

	next := c.nextOccurrence(cfg.Sync, day)

	daysUntil := types.DaysBetween(day, next)

	// Grace-window resolution. The target day counts as the current
	// occurrence when it is today or imminent within the grace window;
	// otherwise the next occurrence is pushed out by the remaining
	// interval. A just-passed day needs no branch of its own: the
	// previous occurrence advanced a full interval lands on the same
	// date as next advanced by interval-1.
	var candidate time.Time
	if daysUntil <= dctx.GracePeriodDays {
		candidate = next
	} else {
		candidate = c.advanceOccurrence(cfg.Sync, next, cfg.IntervalCount-1)
	}

	result := types.ToUTC(types.NormalizePaymentTime(candidate), dctx.SiteUTCOffsetSeconds)
	c.memo.Set(ctx, key, result)
	return result, true
}

// nextOccurrence returns the first target occurrence on/after day, as a
// site-local midnight.
func (c *calculator) nextOccurrence(spec types.SyncSpec, day time.Time) time.Time {
	switch spec.Mode {
	case types.SyncModeWeekday:
		diff := (spec.Weekday - types.ISOWeekday(day) + 7) % 7
		return day.AddDate(0, 0, diff)

	case types.SyncModeMonthDay:
		this := resolveMonthDay(day.Year(), day.Month(), spec.Day, day.Location())
		if !this.Before(day) {
			return this
		}
		return resolveMonthDay(day.Year(), day.Month()+1, spec.Day, day.Location())

	case types.SyncModeYearDate:
		this := resolveYearDate(day.Year(), spec.Month, spec.Day, day.Location())
		if !this.Before(day) {
			return this
		}
		return resolveYearDate(day.Year()+1, spec.Month, spec.Day, day.Location())
	}

	return day
}

// advanceOccurrence moves a resolved occurrence forward by n full billing
// intervals, re-resolving the target day so month-end and leap-day
// clamping track the destination month, not the origin.
func (c *calculator) advanceOccurrence(spec types.SyncSpec, occurrence time.Time, n int) time.Time {
	if n <= 0 {
		return occurrence
	}
	switch spec.Mode {
	case types.SyncModeWeekday:
		return occurrence.AddDate(0, 0, 7*n)
	case types.SyncModeMonthDay:
		return resolveMonthDay(occurrence.Year(), occurrence.Month()+time.Month(n), spec.Day, occurrence.Location())
	case types.SyncModeYearDate:
		return resolveYearDate(occurrence.Year()+n, spec.Month, spec.Day, occurrence.Location())
	}
	return occurrence
}

// resolveMonthDay places the sync day in the given month, normalizing
// month overflow and clamping day values above 27 to the last day of the
// resulting month.
func resolveMonthDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1).Day()
	if day > 27 || day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// resolveYearDate places a (month, day) pair in the given year, clamping
// the day to the month's length so February 29th degrades to the 28th in
// non-leap years.
func resolveYearDate(year, month, day int, loc *time.Location) time.Time {
	m := time.Month(month)
	last := time.Date(year, m+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(year, m, day, 0, 0, 0, 0, loc)
}

func (c *calculator) ComputeSchedule(ctx context.Context, cfg *product.BillingConfig, dctx types.DateContext) (*BillingSchedule, error) {
	if cfg == nil {
		return nil, ierr.NewError("billing config is required").
			WithHint("Schedule computation needs a resolved billing config").
			Mark(ierr.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := dctx.ReferenceInstant
	s := &BillingSchedule{StartDate: start}

	if cfg.HasTrial() {
		s.TrialEndDate = c.TrialEndDate(cfg, start)
	}

	if first, ok := c.FirstPaymentDate(ctx, cfg, dctx, start); ok {
		s.FirstPaymentDate = first
	}

	switch {
	case !s.FirstPaymentDate.IsZero():
		s.NextPaymentDate = s.FirstPaymentDate
	case cfg.HasTrial():
		s.NextPaymentDate = s.TrialEndDate
	case cfg.LengthInPeriods > 0 && cfg.LengthInPeriods <= cfg.IntervalCount:
		// The whole subscription fits in a single payment; the zero
		// sentinel means no further payment ever occurs.
	default:
		next, err := types.AddPeriods(start, cfg.IntervalCount, cfg.PeriodUnit)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Invalid billing period on product config").
				Mark(ierr.ErrValidation)
		}
		s.NextPaymentDate = next
	}

	if cfg.LengthInPeriods > 0 {
		anchor := start
		if s.TrialEndDate.After(anchor) {
			anchor = s.TrialEndDate
		}
		if s.FirstPaymentDate.After(anchor) {
			anchor = s.FirstPaymentDate
		}
		end, err := types.AddPeriods(anchor, cfg.LengthInPeriods, cfg.PeriodUnit)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Invalid billing period on product config").
				Mark(ierr.ErrValidation)
		}
		s.EndDate = end
	}

	return s, nil
}

func memoKey(cfg *product.BillingConfig, from time.Time) string {
	return fmt.Sprintf("%s%s:%d:%d:%s:%s:%d:%d:%d:%d",
		cache.PrefixSyncDate,
		cfg.PeriodUnit, cfg.IntervalCount, cfg.TrialLength, cfg.TrialUnit,
		cfg.Sync.Mode, cfg.Sync.Weekday, cfg.Sync.Month, cfg.Sync.Day,
		from.Unix())
}
