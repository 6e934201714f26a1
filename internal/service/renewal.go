package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/domain/cart"
	"github.com/subscart/subscart/internal/domain/coupon"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

// RenewalService applies a coupon manually re-applied to a renewal order
// that has been rebuilt into a cart context. Only the renewal
// pseudo-classes ever discount such an order.
type RenewalService interface {
	// ApplyCouponToRenewal resolves the discount per original line item,
	// keyed by line item id. renewal_cart divides its fixed amount across
	// items proportionally to their share of the order's original
	// subtotal.
	ApplyCouponToRenewal(ctx context.Context, order *cart.RenewalOrder, rule types.CouponRule, dctx types.DateContext) (map[string]decimal.Decimal, error)
}

type renewalService struct {
	ServiceParams
	coupons coupon.Resolver
}

func NewRenewalService(params ServiceParams) RenewalService {
	return &renewalService{
		ServiceParams: params,
		coupons:       coupon.NewResolver(),
	}
}

func (s *renewalService) ApplyCouponToRenewal(ctx context.Context, order *cart.RenewalOrder, rule types.CouponRule, dctx types.DateContext) (map[string]decimal.Decimal, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, ierr.NewError("renewal order with items is required").
			Mark(ierr.ErrValidation)
	}
	if err := dctx.Validate(); err != nil {
		return nil, err
	}

	if cve := coupon.ValidateForCart(rule, coupon.CartSummary{
		ContainsRenewal:      true,
		ContainsSubscription: true,
	}); cve != nil {
		return nil, ierr.WithError(cve).
			WithHint(cve.Message).
			Mark(ierr.ErrValidation)
	}

	orderSubtotal := order.Subtotal()

	discounts := make(map[string]decimal.Decimal, len(order.Items))
	for _, item := range order.Items {
		d, err := s.coupons.ResolveDiscount(rule, coupon.PricingContext{
			Mode:                 types.ModeNone(),
			RecurringPrice:       item.Subtotal,
			Quantity:             1,
			IsRenewal:            true,
			RenewalSubtotal:      item.Subtotal,
			RenewalOrderSubtotal: orderSubtotal,
			PriceDecimals:        dctx.PriceDecimals,
		}, item.Subtotal)
		if err != nil {
			return nil, err
		}
		discounts[item.LineItemID] = d
	}

	s.Logger.Debugw("applied coupon to rebuilt renewal order",
		"coupon_code", rule.Code,
		"discount_class", rule.DiscountClass,
		"items", len(order.Items))

	return discounts, nil
}
