package service

import (
	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/domain/cart"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/types"
)

// unitPrice resolves the per-unit price of one line item for the given
// calculation mode. A recurring pass sees only the recurring price, and
// zero for anything that is not a subscription; the initial pass sees the
// sign-up fee alone during a trial, sign-up fee plus one recurring period
// otherwise, and the plain price for non-subscription items.
func unitPrice(mode types.CalculationMode, item cart.LineItem, cfg *product.BillingConfig) decimal.Decimal {
	if mode.IsRecurring() {
		if !item.IsSubscription {
			return decimal.Zero
		}
		return item.UnitRecurringPrice
	}

	if !item.IsSubscription || cfg == nil {
		return item.UnitRecurringPrice
	}
	if cfg.HasTrial() {
		return cfg.SignUpFee
	}
	return cfg.SignUpFee.Add(item.UnitRecurringPrice)
}

// discountBase picks the discounting amount a coupon class resolves
// against for one line item on the initial pass. Recurring classes always
// discount the recurring base, so the same coupon takes the same amount
// off the initial total and each renewal.
func discountBase(class types.CouponDiscountClass, item cart.LineItem, initialCharge decimal.Decimal) decimal.Decimal {
	switch {
	case class.IsRenewalClass():
		return item.LineTotal()
	case class == types.CouponClassRecurringFee, class == types.CouponClassRecurringPercent:
		return item.LineTotal()
	default:
		return initialCharge
	}
}
