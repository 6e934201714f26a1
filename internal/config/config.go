package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subscart/subscart/internal/logger"
	"github.com/subscart/subscart/internal/types"
	"github.com/subscart/subscart/internal/validator"
)

// Configuration holds the store-wide settings the billing engine computes
// against. Billing configuration per product comes from the product
// lookup; everything here applies to the whole store.
type Configuration struct {
	// Synchronization carries no required tag: the zero value, sync off
	// with no grace window, is a legitimate store configuration.
	Synchronization SyncConfig

	Proration ProrationConfig `validate:"required"`
	Store     StoreConfig     `validate:"required"`
	Logging   LoggingConfig   `validate:"required"`
}

type SyncConfig struct {
	// Enabled turns renewal date synchronization on for the whole store.
	Enabled bool
	// GracePeriodDays is the window around a synchronized payment day in
	// which a sign-up still counts toward the current occurrence.
	GracePeriodDays int `validate:"gte=0"`
}

type ProrationConfig struct {
	Mode types.ProrationMode `validate:"required"`
}

type StoreConfig struct {
	// UTCOffsetSeconds is the store's offset from UTC; all calendar
	// arithmetic happens in site-local terms.
	UTCOffsetSeconds int
	// PriceDecimals is the precision every resolved amount is rounded to.
	PriceDecimals int32 `validate:"gte=0"`
	Currency      string
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/subscart")

	v.SetEnvPrefix("SUBSCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := GetDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefaultConfig returns the configuration a store runs with when no
// config file or environment overrides exist.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Synchronization: SyncConfig{
			Enabled:         true,
			GracePeriodDays: 0,
		},
		Proration: ProrationConfig{
			Mode: types.ProrationModeNone,
		},
		Store: StoreConfig{
			UTCOffsetSeconds: 0,
			PriceDecimals:    2,
			Currency:         "usd",
		},
		Logging: LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
}

func (c *Configuration) Validate() error {
	if err := validator.ValidateRequest(c); err != nil {
		return err
	}
	return c.Proration.Mode.Validate()
}

// Logger builds a logger at the configured level.
func (c *Configuration) Logger() (*logger.Logger, error) {
	return logger.NewLogger(c.Logging.Level.String())
}

// DateContext assembles the immutable per-pass date context from the
// store settings and a fixed reference instant.
func (c *Configuration) DateContext(now time.Time) types.DateContext {
	return types.DateContext{
		ReferenceInstant:     now.UTC(),
		SiteUTCOffsetSeconds: c.Store.UTCOffsetSeconds,
		GracePeriodDays:      c.Synchronization.GracePeriodDays,
		ProrationMode:        c.Proration.Mode,
		SyncEnabled:          c.Synchronization.Enabled,
		PriceDecimals:        c.Store.PriceDecimals,
	}
}
