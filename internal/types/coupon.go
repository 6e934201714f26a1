package types

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	ierr "github.com/subscart/subscart/internal/errors"
)

// CouponDiscountClass determines which portion of a subscription purchase
// a coupon reduces and in which calculation mode it applies.
type CouponDiscountClass string

const (
	// CouponClassCore is a plain cart discount, unaffected by subscriptions.
	CouponClassCore CouponDiscountClass = "core"
	// CouponClassInitialCart reduces the initial "pay now" total only.
	CouponClassInitialCart CouponDiscountClass = "initial_cart"

	// CouponClassRecurringFee / Percent reduce every recurring payment,
	// and the initial total too when the item carries no free trial.
	CouponClassRecurringFee     CouponDiscountClass = "recurring_fee"
	CouponClassRecurringPercent CouponDiscountClass = "recurring_percent"

	// CouponClassSignUpFee / Percent reduce only the sign-up fee portion
	// of the initial total.
	CouponClassSignUpFee        CouponDiscountClass = "sign_up_fee"
	CouponClassSignUpFeePercent CouponDiscountClass = "sign_up_fee_percent"

	// Renewal pseudo-classes apply only when a renewal order is rebuilt
	// into a cart context and a coupon is manually re-applied to it.
	CouponClassRenewalFee     CouponDiscountClass = "renewal_fee"
	CouponClassRenewalPercent CouponDiscountClass = "renewal_percent"
	CouponClassRenewalCart    CouponDiscountClass = "renewal_cart"
)

var CouponDiscountClassValues = []CouponDiscountClass{
	CouponClassCore,
	CouponClassInitialCart,
	CouponClassRecurringFee,
	CouponClassRecurringPercent,
	CouponClassSignUpFee,
	CouponClassSignUpFeePercent,
	CouponClassRenewalFee,
	CouponClassRenewalPercent,
	CouponClassRenewalCart,
}

func (c CouponDiscountClass) String() string {
	return string(c)
}

func (c CouponDiscountClass) Validate() error {
	if !lo.Contains(CouponDiscountClassValues, c) {
		return ierr.NewError("invalid coupon discount class").
			WithHint("Unknown coupon discount class").
			WithReportableDetails(map[string]any{
				"allowed_values": CouponDiscountClassValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsPercentage reports whether the coupon amount is a percentage rather
// than a fixed monetary amount.
func (c CouponDiscountClass) IsPercentage() bool {
	switch c {
	case CouponClassRecurringPercent, CouponClassSignUpFeePercent, CouponClassRenewalPercent:
		return true
	}
	return false
}

// IsRenewalClass reports whether the class is one of the renewal
// pseudo-classes.
func (c CouponDiscountClass) IsRenewalClass() bool {
	switch c {
	case CouponClassRenewalFee, CouponClassRenewalPercent, CouponClassRenewalCart:
		return true
	}
	return false
}

// IsSignUpFeeClass reports whether the class targets the sign-up fee
// portion of a price.
func (c CouponDiscountClass) IsSignUpFeeClass() bool {
	return c == CouponClassSignUpFee || c == CouponClassSignUpFeePercent
}

// IsSubscriptionClass reports whether the class is subscription aware at
// all, as opposed to a plain cart discount.
func (c CouponDiscountClass) IsSubscriptionClass() bool {
	return c != CouponClassCore
}

// CouponRule is the read-only definition of an applied coupon.
type CouponRule struct {
	Code          string              `json:"code"`
	DiscountClass CouponDiscountClass `json:"discount_class"`

	// Amount is a fixed monetary amount, or a percentage in [0, 100]
	// when the class is percentage based.
	Amount decimal.Decimal `json:"amount"`

	// UsageLimitInPayments caps how many payments the coupon discounts.
	// Zero means unlimited.
	UsageLimitInPayments int `json:"usage_limit_in_payments"`
}

func (r CouponRule) Validate() error {
	if r.Code == "" {
		return ierr.NewError("coupon code is required").
			WithHint("Coupon code cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := r.DiscountClass.Validate(); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("coupon amount cannot be negative").
			WithReportableDetails(map[string]any{
				"code":           r.Code,
				"provided_value": r.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.UsageLimitInPayments < 0 {
		return ierr.NewError("coupon usage limit cannot be negative").
			WithReportableDetails(map[string]any{
				"code":           r.Code,
				"provided_value": r.UsageLimitInPayments,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
