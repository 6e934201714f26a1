package coupon

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/types"
)

// CartSummary is the slice of cart state coupon validation needs.
type CartSummary struct {
	SignUpFeeTotal       decimal.Decimal
	ContainsRenewal      bool
	ContainsSubscription bool
}

// ValidateForCart checks whether the rule's discount class is compatible
// with the cart's contents. It returns a *types.CouponValidationError with
// a rule-specific message when the coupon must be rejected, nil when it may
// stay applied.
func ValidateForCart(rule types.CouponRule, summary CartSummary) *types.CouponValidationError {
	if err := rule.Validate(); err != nil {
		cve := types.NewCouponValidationError(
			types.CouponValidationErrorCodeInvalidCouponDefinition,
			rule.Code,
			"the coupon definition is invalid",
		)
		cve.Details = map[string]interface{}{"cause": err.Error()}
		return cve
	}

	class := rule.DiscountClass

	if class.IsRenewalClass() {
		if !summary.ContainsRenewal {
			return types.NewCouponValidationError(
				types.CouponValidationErrorCodeRenewalOnStandardCart,
				rule.Code,
				"this coupon only applies to subscription renewal payments",
			)
		}
		return nil
	}

	// Non-renewal subscription classes never discount a renewal cart; the
	// original signup discounts were already honored or expired.
	if class.IsSubscriptionClass() && summary.ContainsRenewal {
		return types.NewCouponValidationError(
			types.CouponValidationErrorCodeSubscriptionOnRenewal,
			rule.Code,
			fmt.Sprintf("a %s coupon cannot be applied to a renewal payment", class),
		)
	}

	if class.IsSignUpFeeClass() && !summary.SignUpFeeTotal.IsPositive() {
		return types.NewCouponValidationError(
			types.CouponValidationErrorCodeSignUpFeeMissing,
			rule.Code,
			"this coupon discounts sign-up fees, and nothing in the cart has one",
		)
	}

	if class.IsSubscriptionClass() && !summary.ContainsSubscription {
		return types.NewCouponValidationError(
			types.CouponValidationErrorCodeNoSubscriptionInCart,
			rule.Code,
			"this coupon requires a subscription product in the cart",
		)
	}

	return nil
}
