package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subscart/subscart/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Synchronization.Enabled)
	assert.Equal(t, types.ProrationModeNone, cfg.Proration.Mode)
	assert.Equal(t, int32(2), cfg.Store.PriceDecimals)
}

func TestConfigValidateAcceptsDisabledSynchronization(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Synchronization = SyncConfig{}
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejectsBadProrationMode(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Proration.Mode = types.ProrationMode("half")
	require.Error(t, cfg.Validate())
}

func TestDateContextBridge(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Synchronization.GracePeriodDays = 2
	cfg.Store.UTCOffsetSeconds = 3600
	cfg.Proration.Mode = types.ProrationModeFull

	now := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	dctx := cfg.DateContext(now)

	require.NoError(t, dctx.Validate())
	assert.True(t, dctx.ReferenceInstant.Equal(now))
	assert.Equal(t, 2, dctx.GracePeriodDays)
	assert.Equal(t, 3600, dctx.SiteUTCOffsetSeconds)
	assert.Equal(t, types.ProrationModeFull, dctx.ProrationMode)
	assert.True(t, dctx.SyncEnabled)
}

func TestConfiguredLogger(t *testing.T) {
	cfg := GetDefaultConfig()
	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, log)
}
