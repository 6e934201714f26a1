package proration

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/types"
)

// ProrationParams holds all necessary input for prorating the first
// payment of a synchronized subscription.
type ProrationParams struct {
	// Config is the product's billing configuration.
	Config *product.BillingConfig

	// DateContext carries the pass reference instant and the store's
	// proration mode, offset and precision.
	DateContext types.DateContext

	// NextPaymentDate is the synchronized first payment instant (UTC).
	NextPaymentDate time.Time

	// FullPrice is the undiscounted per-unit price of one full cycle,
	// including the sign-up fee when one exists.
	FullPrice decimal.Decimal

	// NeedsShipping feeds the virtual_only proration mode: physical
	// products are charged in full under that mode.
	NeedsShipping bool
}
