package product

import "context"

// ConfigRepository resolves the billing configuration of a product
// reference. The engine only reads configs; persistence belongs to the
// caller. A missing or corrupt config surfaces as an error and the
// affected item or group degrades out of the totals, it never aborts the
// computation.
type ConfigRepository interface {
	GetBillingConfig(ctx context.Context, productRef string) (*BillingConfig, error)
}
