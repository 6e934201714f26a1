package types

import (
	"time"

	"github.com/samber/lo"
	ierr "github.com/subscart/subscart/internal/errors"
)

// BillingPeriod is the unit a subscription is billed in ex MONTHLY, ANNUAL, WEEKLY, DAILY
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY   BillingPeriod = "DAILY"
	BILLING_PERIOD_WEEKLY  BillingPeriod = "WEEKLY"
	BILLING_PERIOD_MONTHLY BillingPeriod = "MONTHLY"
	BILLING_PERIOD_ANNUAL  BillingPeriod = "ANNUAL"
)

var BillingPeriodValues = []BillingPeriod{
	BILLING_PERIOD_DAILY,
	BILLING_PERIOD_WEEKLY,
	BILLING_PERIOD_MONTHLY,
	BILLING_PERIOD_ANNUAL,
}

func (p BillingPeriod) String() string {
	return string(p)
}

func (p BillingPeriod) Validate() error {
	if !lo.Contains(BillingPeriodValues, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Billing period must be one of DAILY, WEEKLY, MONTHLY, ANNUAL").
			WithReportableDetails(map[string]any{
				"allowed_values": BillingPeriodValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SingularNoun returns the lowercase calendar noun for the period,
// used when rendering schedule key tokens ex "month" for MONTHLY.
func (p BillingPeriod) SingularNoun() string {
	switch p {
	case BILLING_PERIOD_DAILY:
		return "day"
	case BILLING_PERIOD_WEEKLY:
		return "week"
	case BILLING_PERIOD_MONTHLY:
		return "month"
	case BILLING_PERIOD_ANNUAL:
		return "year"
	default:
		return string(p)
	}
}

// DateContext carries the store-wide settings a single totals pass computes
// against. It is assembled once per pass and treated as immutable.
type DateContext struct {
	// ReferenceInstant is "now" for the pass, in UTC. Using a fixed
	// reference keeps repeated computations over the same cart snapshot
	// byte identical.
	ReferenceInstant time.Time

	// SiteUTCOffsetSeconds shifts all calendar math into the store's
	// local day boundaries.
	SiteUTCOffsetSeconds int

	// GracePeriodDays widens the window in which a synchronized payment
	// day that is imminent or just passed still counts as the current
	// occurrence.
	GracePeriodDays int

	ProrationMode ProrationMode

	// SyncEnabled disables all date synchronization when false.
	SyncEnabled bool

	// PriceDecimals is the store price precision applied to every
	// resolved monetary amount.
	PriceDecimals int32
}

func (d DateContext) Validate() error {
	if d.ReferenceInstant.IsZero() {
		return ierr.NewError("reference instant is required").
			WithHint("Date context must carry the computation reference time").
			Mark(ierr.ErrValidation)
	}
	if d.GracePeriodDays < 0 {
		return ierr.NewError("grace period cannot be negative").
			WithReportableDetails(map[string]any{
				"provided_value": d.GracePeriodDays,
			}).
			Mark(ierr.ErrValidation)
	}
	return d.ProrationMode.Validate()
}
