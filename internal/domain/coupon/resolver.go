package coupon

import (
	"github.com/shopspring/decimal"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

var hundred = decimal.NewFromInt(100)

// PricingContext carries everything a discount resolution needs to know
// about the line item and the phase of the totals pass. The calculation
// mode is threaded explicitly; resolution never consults ambient state.
type PricingContext struct {
	Mode types.CalculationMode

	// RecurringPrice and SignUpFee are per unit.
	RecurringPrice decimal.Decimal
	SignUpFee      decimal.Decimal
	Quantity       int

	HasTrial  bool
	IsRenewal bool

	// RenewalSubtotal is the item's subtotal in the original renewal
	// order; RenewalOrderSubtotal the original order's full subtotal.
	// Both are zero outside renewal contexts.
	RenewalSubtotal      decimal.Decimal
	RenewalOrderSubtotal decimal.Decimal

	PriceDecimals int32
}

func (p PricingContext) quantity() decimal.Decimal {
	return decimal.NewFromInt(int64(p.Quantity))
}

// Resolver computes the discount a coupon takes off one line item for the
// current calculation mode.
type Resolver interface {
	// ResolveDiscount returns the discount amount for the rule against
	// the given discounting base. A class that does not apply in the
	// current mode resolves to zero; an unknown class is an invariant
	// violation and fails loudly.
	ResolveDiscount(rule types.CouponRule, pctx PricingContext, discountingAmount decimal.Decimal) (decimal.Decimal, error)
}

type resolver struct{}

func NewResolver() Resolver {
	return &resolver{}
}

func (r *resolver) ResolveDiscount(rule types.CouponRule, pctx PricingContext, discountingAmount decimal.Decimal) (decimal.Decimal, error) {
	var amount decimal.Decimal

	switch rule.DiscountClass {
	case types.CouponClassCore, types.CouponClassInitialCart:
		// Plain cart discounts, unaffected by subscriptions: initial
		// pass only. The rule amount is a cart-level cap; the caller
		// tracks the remainder across lines.
		if pctx.Mode.IsRecurring() {
			return decimal.Zero, nil
		}
		amount = decimal.Min(rule.Amount, discountingAmount)

	case types.CouponClassRecurringFee:
		if !r.recurringApplies(pctx) {
			return decimal.Zero, nil
		}
		amount = decimal.Min(rule.Amount.Mul(pctx.quantity()), discountingAmount)

	case types.CouponClassRecurringPercent:
		if !r.recurringApplies(pctx) {
			return decimal.Zero, nil
		}
		amount = discountingAmount.Mul(rule.Amount).Div(hundred)

	case types.CouponClassSignUpFee:
		base, ok := r.signUpFeeBase(pctx)
		if !ok {
			return decimal.Zero, nil
		}
		amount = decimal.Min(rule.Amount.Mul(pctx.quantity()), base)

	case types.CouponClassSignUpFeePercent:
		base, ok := r.signUpFeeBase(pctx)
		if !ok {
			return decimal.Zero, nil
		}
		amount = base.Mul(rule.Amount).Div(hundred)

	case types.CouponClassRenewalFee:
		if !r.renewalApplies(pctx) {
			return decimal.Zero, nil
		}
		amount = decimal.Min(rule.Amount.Mul(pctx.quantity()), discountingAmount)

	case types.CouponClassRenewalPercent:
		if !r.renewalApplies(pctx) {
			return decimal.Zero, nil
		}
		amount = discountingAmount.Mul(rule.Amount).Div(hundred)

	case types.CouponClassRenewalCart:
		if !r.renewalApplies(pctx) {
			return decimal.Zero, nil
		}
		// Divide the fixed amount across renewal lines proportionally
		// to each line's share of the original renewal order subtotal,
		// not the live cart subtotal.
		if !pctx.RenewalOrderSubtotal.IsPositive() {
			return decimal.Zero, nil
		}
		share := pctx.RenewalSubtotal.Div(pctx.RenewalOrderSubtotal)
		amount = decimal.Min(rule.Amount.Mul(share), discountingAmount)

	default:
		// Silently defaulting here would misstate money.
		return decimal.Zero, ierr.NewError("unknown coupon discount class").
			WithReportableDetails(map[string]any{
				"coupon_code":    rule.Code,
				"discount_class": rule.DiscountClass,
			}).
			Mark(ierr.ErrSystem)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(pctx.PriceDecimals), nil
}

// recurringApplies gates the recurring_* classes: every recurring pass,
// plus the initial pass when the item has no trial, because the initial
// charge then includes one full recurring period.
func (r *resolver) recurringApplies(pctx PricingContext) bool {
	if pctx.IsRenewal {
		return false
	}
	if pctx.Mode.IsRecurring() {
		return true
	}
	return !pctx.HasTrial
}

// signUpFeeBase substitutes the discounting base with the portion of the
// price attributable to the sign-up fee. Sign-up fees are only ever
// charged on the initial pass.
func (r *resolver) signUpFeeBase(pctx PricingContext) (decimal.Decimal, bool) {
	if pctx.Mode.IsRecurring() || pctx.IsRenewal {
		return decimal.Zero, false
	}
	base := pctx.SignUpFee.Mul(pctx.quantity())
	if !base.IsPositive() {
		return decimal.Zero, false
	}
	return base, true
}

// renewalApplies gates the renewal pseudo-classes: initial pass over a
// rebuilt renewal order only.
func (r *resolver) renewalApplies(pctx PricingContext) bool {
	return pctx.IsRenewal && !pctx.Mode.IsRecurring()
}
