package product

import (
	"github.com/shopspring/decimal"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

// BillingConfig is the per-product (or per-variation) recurring billing
// definition. It is read once at the start of a totals pass and treated
// as immutable for the duration of the pass.
type BillingConfig struct {
	// PeriodUnit and IntervalCount define the billing cadence,
	// ex every 2nd MONTHLY period.
	PeriodUnit    types.BillingPeriod `json:"period_unit"`
	IntervalCount int                 `json:"interval_count"`

	// LengthInPeriods caps the subscription length. Zero means unlimited.
	LengthInPeriods int `json:"length_in_periods"`

	// TrialUnit and TrialLength define an optional free trial preceding
	// the first charge.
	TrialUnit   types.BillingPeriod `json:"trial_unit"`
	TrialLength int                 `json:"trial_length"`

	SignUpFee      decimal.Decimal `json:"sign_up_fee"`
	RecurringPrice decimal.Decimal `json:"recurring_price"`

	Sync types.SyncSpec `json:"sync"`
}

func (c *BillingConfig) Validate() error {
	if err := c.PeriodUnit.Validate(); err != nil {
		return err
	}
	if c.IntervalCount < 1 {
		return ierr.NewError("interval count must be at least 1").
			WithReportableDetails(map[string]any{
				"provided_value": c.IntervalCount,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.LengthInPeriods < 0 {
		return ierr.NewError("length in periods cannot be negative").
			WithReportableDetails(map[string]any{
				"provided_value": c.LengthInPeriods,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.TrialLength < 0 {
		return ierr.NewError("trial length cannot be negative").
			WithReportableDetails(map[string]any{
				"provided_value": c.TrialLength,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.TrialLength > 0 {
		if err := c.TrialUnit.Validate(); err != nil {
			return err
		}
	}
	if c.SignUpFee.IsNegative() || c.RecurringPrice.IsNegative() {
		return ierr.NewError("prices cannot be negative").
			WithReportableDetails(map[string]any{
				"sign_up_fee":     c.SignUpFee,
				"recurring_price": c.RecurringPrice,
			}).
			Mark(ierr.ErrValidation)
	}
	return c.Sync.Validate()
}

// HasTrial reports whether the product carries a free trial.
func (c *BillingConfig) HasTrial() bool {
	return c.TrialLength > 0
}

// IsSynced reports whether renewal dates for this product can be
// synchronized at all. Daily products never synchronize.
func (c *BillingConfig) IsSynced() bool {
	return c.Sync.IsSynced() && c.PeriodUnit != types.BILLING_PERIOD_DAILY
}
