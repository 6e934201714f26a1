package cart

import (
	"github.com/shopspring/decimal"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

// LineItem is one cart line for the duration of a totals pass. The cart
// owns its items; the engine never persists them.
type LineItem struct {
	ID         string `json:"id"`
	ProductRef string `json:"product_ref"`
	Quantity   int    `json:"quantity"`

	// UnitRecurringPrice is the per-unit price of one billing period for
	// subscription items, or the plain unit price otherwise.
	UnitRecurringPrice decimal.Decimal `json:"unit_recurring_price"`

	// TaxAmount is the externally computed tax for this line per
	// payment. The engine only sums and allocates it.
	TaxAmount decimal.Decimal `json:"tax_amount"`

	NeedsShipping       bool `json:"needs_shipping"`
	OneTimeShippingOnly bool `json:"one_time_shipping_only"`
	IsSubscription      bool `json:"is_subscription"`

	// IsRenewal marks items of a renewal order rebuilt into a cart
	// context; only renewal pseudo-class coupons may touch them.
	IsRenewal bool `json:"is_renewal"`

	// RenewalSubtotal is the item's subtotal in the original renewal
	// order, the proportional base for renewal_cart coupon division.
	RenewalSubtotal decimal.Decimal `json:"renewal_subtotal,omitempty"`
}

// NewLineItem creates a line item with a generated identifier.
func NewLineItem(productRef string, quantity int) LineItem {
	return LineItem{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		ProductRef: productRef,
		Quantity:   quantity,
	}
}

func (i LineItem) Validate() error {
	if i.ProductRef == "" {
		return ierr.NewError("line item product reference is required").
			Mark(ierr.ErrValidation)
	}
	if i.Quantity <= 0 {
		return ierr.NewError("line item quantity must be positive").
			WithReportableDetails(map[string]any{
				"product_ref":    i.ProductRef,
				"provided_value": i.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}
	if i.UnitRecurringPrice.IsNegative() {
		return ierr.NewError("line item price cannot be negative").
			WithReportableDetails(map[string]any{
				"product_ref":    i.ProductRef,
				"provided_value": i.UnitRecurringPrice,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LineTotal is the per-payment line total before discounts.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitRecurringPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Fee is an extra cart-level charge applied to the initial total.
type Fee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Cart is the snapshot a totals pass computes over. The engine reads it
// and never mutates it; narrowed per-group views are slices over the same
// backing items.
type Cart struct {
	Items   []LineItem        `json:"items"`
	Coupons []types.CouponRule `json:"coupons"`
	Fees    []Fee             `json:"fees"`
}

func (c *Cart) Validate() error {
	for _, item := range c.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, coupon := range c.Coupons {
		if err := coupon.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ContainsRenewal reports whether any line belongs to a renewal order.
func (c *Cart) ContainsRenewal() bool {
	for _, item := range c.Items {
		if item.IsRenewal {
			return true
		}
	}
	return false
}

// ContainsSubscription reports whether any line is a subscription.
func (c *Cart) ContainsSubscription() bool {
	for _, item := range c.Items {
		if item.IsSubscription {
			return true
		}
	}
	return false
}

// RenewalOrderItem is one line of the original renewal order being
// rebuilt into a cart context.
type RenewalOrderItem struct {
	LineItemID string          `json:"line_item_id"`
	ProductRef string          `json:"product_ref"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// RenewalOrder carries the original subtotals a renewal_cart coupon
// divides against, so discounts never skew when unrelated items are added
// to the live cart.
type RenewalOrder struct {
	Items []RenewalOrderItem `json:"items"`
}

// Subtotal is the original renewal order subtotal across all items.
func (o *RenewalOrder) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}
