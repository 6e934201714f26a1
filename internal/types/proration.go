package types

import (
	"github.com/samber/lo"
	ierr "github.com/subscart/subscart/internal/errors"
)

// ProrationMode determines whether and how the first payment of a
// synchronized subscription is reduced to the part of the cycle actually
// delivered.
type ProrationMode string

const (
	// ProrationModeNone charges the full recurring price up front.
	ProrationModeNone ProrationMode = "none"
	// ProrationModeFull prorates the first payment of every synchronized product.
	ProrationModeFull ProrationMode = "full"
	// ProrationModeVirtualOnly prorates only products that need no shipping.
	ProrationModeVirtualOnly ProrationMode = "virtual_only"
	// ProrationModeRecurringInterval prorates only when the first payment
	// falls within one billing cycle of sign-up.
	ProrationModeRecurringInterval ProrationMode = "recurring_interval"
)

var ProrationModeValues = []ProrationMode{
	ProrationModeNone,
	ProrationModeFull,
	ProrationModeVirtualOnly,
	ProrationModeRecurringInterval,
}

func (p ProrationMode) String() string {
	return string(p)
}

func (p ProrationMode) Validate() error {
	if !lo.Contains(ProrationModeValues, p) {
		return ierr.NewError("invalid proration mode").
			WithHint("Proration mode must be one of none, full, virtual_only, recurring_interval").
			WithReportableDetails(map[string]any{
				"allowed_values": ProrationModeValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
