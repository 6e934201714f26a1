package testutil

import (
	"context"
	"sync"

	"github.com/subscart/subscart/internal/domain/product"
	ierr "github.com/subscart/subscart/internal/errors"
)

// InMemoryProductConfigStore implements product.ConfigRepository for
// tests.
type InMemoryProductConfigStore struct {
	mu      sync.RWMutex
	configs map[string]*product.BillingConfig
}

func NewInMemoryProductConfigStore() *InMemoryProductConfigStore {
	return &InMemoryProductConfigStore{
		configs: make(map[string]*product.BillingConfig),
	}
}

// SetBillingConfig registers the billing config returned for a product.
func (s *InMemoryProductConfigStore) SetBillingConfig(productRef string, cfg *product.BillingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[productRef] = cfg
}

func (s *InMemoryProductConfigStore) GetBillingConfig(_ context.Context, productRef string) (*product.BillingConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[productRef]
	if !ok {
		return nil, ierr.NewError("billing config not found").
			WithHintf("No billing config for product %s", productRef).
			Mark(ierr.ErrNotFound)
	}

	copied := *cfg
	return &copied, nil
}

// Clear removes all registered configs.
func (s *InMemoryProductConfigStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = make(map[string]*product.BillingConfig)
}
