package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/shopspring/decimal"
)

// ShippingEstimator resolves the shipping rate for a package of items.
// The engine calls it once per distinct package per totals pass; results
// are cached against the package content hash.
type ShippingEstimator interface {
	EstimateRate(ctx context.Context, items []LineItem) (decimal.Decimal, error)
}

// PackageHash derives a stable key for a shipping package from its item
// identities and quantities, independent of item order.
func PackageHash(items []LineItem) string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, fmt.Sprintf("%s:%s:%d", item.ID, item.ProductRef, item.Quantity))
	}
	sort.Strings(ids)

	h := fnv.New64a()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum64())
}
