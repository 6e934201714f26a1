package service

import (
	"github.com/subscart/subscart/internal/config"
	"github.com/subscart/subscart/internal/domain/cart"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/logger"
)

// ServiceParams holds the dependencies every service needs. The engine
// owns no persistence or transport; everything it consumes arrives
// through these ports.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// ProductRepo resolves per-product billing configuration, read-only.
	ProductRepo product.ConfigRepository

	// ShippingEstimator resolves rates for shipping packages.
	ShippingEstimator cart.ShippingEstimator
}
