package types

import (
	"fmt"

	"github.com/samber/lo"
	ierr "github.com/subscart/subscart/internal/errors"
)

// CouponValidationErrorCode represents the type of coupon validation error
type CouponValidationErrorCode string

const (
	// Class / cart compatibility errors
	CouponValidationErrorCodeSignUpFeeMissing        CouponValidationErrorCode = "SIGN_UP_FEE_COUPON_WITHOUT_SIGN_UP_FEE"
	CouponValidationErrorCodeSubscriptionOnRenewal   CouponValidationErrorCode = "SUBSCRIPTION_COUPON_ON_RENEWAL_CART"
	CouponValidationErrorCodeRenewalOnStandardCart   CouponValidationErrorCode = "RENEWAL_COUPON_ON_STANDARD_CART"
	CouponValidationErrorCodeNoSubscriptionInCart    CouponValidationErrorCode = "SUBSCRIPTION_COUPON_WITHOUT_SUBSCRIPTION"
	CouponValidationErrorCodeInvalidDiscountClass    CouponValidationErrorCode = "INVALID_DISCOUNT_CLASS"
	CouponValidationErrorCodeInvalidCouponDefinition CouponValidationErrorCode = "INVALID_COUPON_DEFINITION"
)

func (c CouponValidationErrorCode) String() string {
	return string(c)
}

func (c CouponValidationErrorCode) Validate() error {
	allowed := []CouponValidationErrorCode{
		CouponValidationErrorCodeSignUpFeeMissing,
		CouponValidationErrorCodeSubscriptionOnRenewal,
		CouponValidationErrorCodeRenewalOnStandardCart,
		CouponValidationErrorCodeNoSubscriptionInCart,
		CouponValidationErrorCodeInvalidDiscountClass,
		CouponValidationErrorCodeInvalidCouponDefinition,
	}

	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid coupon validation error code").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponValidationError is the typed, user-facing rejection of a coupon
// whose class conflicts with the cart's contents. It carries a specific
// message per rule, never a generic failure.
type CouponValidationError struct {
	Code       CouponValidationErrorCode `json:"code"`
	CouponCode string                    `json:"coupon_code"`
	Message    string                    `json:"message"`
	Details    map[string]interface{}    `json:"details,omitempty"`
}

func (e *CouponValidationError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.CouponCode, e.Message)
}

// NewCouponValidationError builds a typed rejection for a coupon.
func NewCouponValidationError(code CouponValidationErrorCode, couponCode, message string) *CouponValidationError {
	return &CouponValidationError{
		Code:       code,
		CouponCode: couponCode,
		Message:    message,
	}
}
