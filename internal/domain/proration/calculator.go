package proration

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/domain/product"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

// Calculator reduces a synchronized subscription's first charge to the
// part of the billing cycle actually delivered before the first
// synchronized payment.
type Calculator interface {
	// Prorate returns the amount to charge up front for one unit. The
	// result equals FullPrice whenever proration does not apply, and is
	// always within [0, FullPrice].
	Prorate(params ProrationParams) (decimal.Decimal, error)
}

type dayBasedCalculator struct{}

// NewCalculator creates the day-based proration calculator.
func NewCalculator() Calculator {
	return &dayBasedCalculator{}
}

func (c *dayBasedCalculator) Prorate(params ProrationParams) (decimal.Decimal, error) {
	if err := validateParams(params); err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Invalid proration params").
			Mark(ierr.ErrValidation)
	}

	dctx := params.DateContext
	full := params.FullPrice

	if !c.applies(params) {
		return full.Round(dctx.PriceDecimals), nil
	}

	daysInCycle, err := c.daysInCycle(params.Config, params.NextPaymentDate, dctx)
	if err != nil {
		return decimal.Zero, err
	}

	daysUntil := daysUntilNextPayment(dctx.ReferenceInstant, params.NextPaymentDate)
	if daysUntil <= 0 {
		return full.Round(dctx.PriceDecimals), nil
	}

	decimalDaysUntil := decimal.NewFromInt(int64(daysUntil))
	decimalCycle := decimal.NewFromInt(int64(daysInCycle))

	var price decimal.Decimal
	fee := params.Config.SignUpFee
	if fee.IsPositive() && !params.Config.HasTrial() {
		// The sign-up fee itself is never prorated; only the recurring
		// portion scales with the partial cycle.
		price = fee.Add(decimalDaysUntil.Mul(full.Sub(fee)).Div(decimalCycle))
	} else {
		price = decimalDaysUntil.Mul(full).Div(decimalCycle)
	}

	price = price.Round(dctx.PriceDecimals)

	// A prorated price is always within [0, FullPrice].
	if price.IsNegative() {
		return decimal.Zero, nil
	}
	if price.GreaterThan(full) {
		return full.Round(dctx.PriceDecimals), nil
	}
	return price, nil
}

// applies decides whether the store settings and schedule call for
// proration at all.
func (c *dayBasedCalculator) applies(params ProrationParams) bool {
	dctx := params.DateContext

	if dctx.ProrationMode == types.ProrationModeNone {
		return false
	}
	if !dctx.SyncEnabled || !params.Config.IsSynced() {
		return false
	}
	if params.NextPaymentDate.IsZero() {
		return false
	}
	if types.SameCalendarDay(params.NextPaymentDate, dctx.ReferenceInstant, dctx.SiteUTCOffsetSeconds) {
		return false
	}
	if dctx.ProrationMode == types.ProrationModeVirtualOnly && params.NeedsShipping {
		return false
	}
	if dctx.ProrationMode == types.ProrationModeRecurringInterval {
		cycle, err := c.daysInCycle(params.Config, params.NextPaymentDate, dctx)
		if err != nil {
			return false
		}
		if daysUntilNextPayment(dctx.ReferenceInstant, params.NextPaymentDate) > cycle {
			return false
		}
	}
	return true
}

// daysInCycle sizes one full billing cycle in days, using the calendar of
// the target payment date so February and leap years size correctly.
func (c *dayBasedCalculator) daysInCycle(cfg *product.BillingConfig, next time.Time, dctx types.DateContext) (int, error) {
	local := types.ToSiteLocal(next, dctx.SiteUTCOffsetSeconds)

	var perInterval int
	switch cfg.PeriodUnit {
	case types.BILLING_PERIOD_WEEKLY:
		perInterval = 7
	case types.BILLING_PERIOD_MONTHLY:
		perInterval = types.DaysInMonth(local)
	case types.BILLING_PERIOD_ANNUAL:
		perInterval = types.DaysInYear(local)
	default:
		return 0, ierr.NewError("billing period cannot be prorated").
			WithReportableDetails(map[string]any{
				"period_unit": cfg.PeriodUnit,
			}).
			Mark(ierr.ErrSystem)
	}

	return cfg.IntervalCount * perInterval, nil
}

// daysUntilNextPayment counts the days remaining before the next payment,
// rounding partial days up.
func daysUntilNextPayment(reference, next time.Time) int {
	return int(math.Ceil(next.Sub(reference).Hours() / 24))
}

func validateParams(params ProrationParams) error {
	if params.Config == nil {
		return ierr.NewError("billing config is required").Mark(ierr.ErrValidation)
	}
	if params.DateContext.ReferenceInstant.IsZero() {
		return ierr.NewError("reference instant is required").Mark(ierr.ErrValidation)
	}
	if params.FullPrice.IsNegative() {
		return ierr.NewError("full price cannot be negative").
			WithReportableDetails(map[string]any{
				"provided_value": params.FullPrice,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
