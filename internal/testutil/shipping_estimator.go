package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/domain/cart"
)

// FlatRateShippingEstimator implements cart.ShippingEstimator with a
// fixed rate per package and counts invocations, so tests can assert the
// estimator runs at most once per distinct package per pass.
type FlatRateShippingEstimator struct {
	mu    sync.Mutex
	rate  decimal.Decimal
	err   error
	calls int
}

func NewFlatRateShippingEstimator(rate decimal.Decimal) *FlatRateShippingEstimator {
	return &FlatRateShippingEstimator{rate: rate}
}

// FailWith makes every estimate return the given error.
func (e *FlatRateShippingEstimator) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *FlatRateShippingEstimator) EstimateRate(_ context.Context, _ []cart.LineItem) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return decimal.Zero, e.err
	}
	return e.rate, nil
}

// Calls returns how many times the estimator has been invoked.
func (e *FlatRateShippingEstimator) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
