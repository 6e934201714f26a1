package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/types"
)

// RecurringGroup is one set of cart items billed together on an identical
// future schedule. Groups are recomputed on every totals pass and never
// persisted; there is no cross-request identity beyond the schedule key.
type RecurringGroup struct {
	// DisplayID is a short identifier for logs and rendering, derived
	// from the schedule key so repeated passes produce the same ID.
	DisplayID string `json:"display_id"`

	Key types.ScheduleKey `json:"-"`

	// Items is a narrowed view over the cart's item slice.
	Items []LineItem `json:"items"`

	StartDate    time.Time `json:"start_date"`
	TrialEndDate time.Time `json:"trial_end_date,omitempty"`

	// NextPaymentDate zero means only one payment ever occurs.
	NextPaymentDate time.Time `json:"next_payment_date,omitempty"`
	EndDate         time.Time `json:"end_date,omitempty"`

	RecurringTotal decimal.Decimal `json:"recurring_total"`
	ShippingTotal  decimal.Decimal `json:"shipping_total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
}

// HasTrial reports whether the group's schedule starts with a free trial.
func (g *RecurringGroup) HasTrial() bool {
	return !g.TrialEndDate.IsZero()
}

// HasMoreThanOnePayment reports whether the group ever bills again after
// its first payment.
func (g *RecurringGroup) HasMoreThanOnePayment() bool {
	return !g.NextPaymentDate.IsZero()
}

// FormatRecurringTotal renders the recurring total for cart and checkout
// display, ex "$45.00".
func (g *RecurringGroup) FormatRecurringTotal(currencyCode string, precision int32) string {
	return types.FormatAmount(g.RecurringTotal, currencyCode, precision)
}

// ConfigWarning records a line item or group dropped from the totals
// because its billing configuration could not be resolved. Warnings are
// non-fatal; the computation degrades to excluding the affected parts.
type ConfigWarning struct {
	ID         string `json:"id"`
	ProductRef string `json:"product_ref"`
	Message    string `json:"message"`
}

// NewConfigWarning builds a warning with an identifier derived from its
// content, so identical passes report identical warnings.
func NewConfigWarning(productRef, message string) ConfigWarning {
	return ConfigWarning{
		ID:         types.DeterministicIDWithPrefix(types.UUID_PREFIX_WARNING, productRef+":"+message),
		ProductRef: productRef,
		Message:    message,
	}
}
