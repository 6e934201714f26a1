package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/domain/schedule"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

type stubConfigRepo struct {
	configs map[string]*product.BillingConfig
}

func (r *stubConfigRepo) GetBillingConfig(_ context.Context, productRef string) (*product.BillingConfig, error) {
	cfg, ok := r.configs[productRef]
	if !ok {
		return nil, ierr.NewError("billing config not found").Mark(ierr.ErrNotFound)
	}
	return cfg, nil
}

func classifierContext() types.DateContext {
	return types.DateContext{
		ReferenceInstant: time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
		ProrationMode:    types.ProrationModeNone,
		SyncEnabled:      true,
		PriceDecimals:    2,
	}
}

func subscriptionItem(productRef string) LineItem {
	item := NewLineItem(productRef, 1)
	item.UnitRecurringPrice = decimal.NewFromInt(30)
	item.IsSubscription = true
	return item
}

func TestClassifySplitsTrialFromNonTrial(t *testing.T) {
	monthly := &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_MONTHLY,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(30),
		Sync:           types.NoSync(),
	}
	withTrial := *monthly
	withTrial.TrialUnit = types.BILLING_PERIOD_DAILY
	withTrial.TrialLength = 7

	repo := &stubConfigRepo{configs: map[string]*product.BillingConfig{
		"plain": monthly,
		"trial": &withTrial,
	}}

	c := NewClassifier(repo, schedule.NewCalculator(nil), nil)
	groupings, warnings := c.Classify(context.Background(),
		[]LineItem{subscriptionItem("trial"), subscriptionItem("plain")},
		classifierContext())

	require.Empty(t, warnings)
	require.Len(t, groupings, 2)

	// Same cadence, but the trial suffix keeps the keys apart.
	assert.NotEqual(t, groupings[0].Key, groupings[1].Key)
	assert.Equal(t, 7, groupings[0].Key.TrialLength)
	assert.Equal(t, 0, groupings[1].Key.TrialLength)
}

func TestClassifyMergesIdenticalSchedules(t *testing.T) {
	monthly := &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_MONTHLY,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(30),
		Sync:           types.MonthDaySync(15),
	}
	repo := &stubConfigRepo{configs: map[string]*product.BillingConfig{
		"a": monthly,
		"b": monthly,
	}}

	c := NewClassifier(repo, schedule.NewCalculator(nil), nil)
	groupings, warnings := c.Classify(context.Background(),
		[]LineItem{subscriptionItem("a"), subscriptionItem("b")},
		classifierContext())

	require.Empty(t, warnings)
	require.Len(t, groupings, 1)
	assert.Len(t, groupings[0].Items, 2)
	assert.True(t, groupings[0].Key.Synced)
	assert.Equal(t, "2026_06_15", groupings[0].Key.FirstRenewal)
}

func TestClassifySkipsNonSubscriptionItems(t *testing.T) {
	repo := &stubConfigRepo{configs: map[string]*product.BillingConfig{}}

	plain := NewLineItem("tshirt", 2)
	plain.UnitRecurringPrice = decimal.NewFromInt(15)

	c := NewClassifier(repo, schedule.NewCalculator(nil), nil)
	groupings, warnings := c.Classify(context.Background(), []LineItem{plain}, classifierContext())

	assert.Empty(t, groupings)
	assert.Empty(t, warnings)
}

func TestClassifyWarnsOnUnresolvableConfig(t *testing.T) {
	repo := &stubConfigRepo{configs: map[string]*product.BillingConfig{}}

	c := NewClassifier(repo, schedule.NewCalculator(nil), nil)
	groupings, warnings := c.Classify(context.Background(),
		[]LineItem{subscriptionItem("ghost")},
		classifierContext())

	assert.Empty(t, groupings)
	require.Len(t, warnings, 1)
	assert.Equal(t, "ghost", warnings[0].ProductRef)
	assert.NotEmpty(t, warnings[0].ID)
}

func TestClassifyOrderingIsDeterministic(t *testing.T) {
	weekly := &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_WEEKLY,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(5),
		Sync:           types.NoSync(),
	}
	monthly := &product.BillingConfig{
		PeriodUnit:     types.BILLING_PERIOD_MONTHLY,
		IntervalCount:  1,
		RecurringPrice: decimal.NewFromInt(30),
		Sync:           types.NoSync(),
	}
	repo := &stubConfigRepo{configs: map[string]*product.BillingConfig{
		"weekly":  weekly,
		"monthly": monthly,
	}}

	items := []LineItem{
		subscriptionItem("monthly"),
		subscriptionItem("weekly"),
		subscriptionItem("monthly"),
	}

	c := NewClassifier(repo, schedule.NewCalculator(nil), nil)
	first, _ := c.Classify(context.Background(), items, classifierContext())
	second, _ := c.Classify(context.Background(), items, classifierContext())

	require.Len(t, first, 2)
	assert.Equal(t, types.BILLING_PERIOD_MONTHLY, first[0].Key.Period)
	assert.Len(t, first[0].Items, 2)

	require.Len(t, second, 2)
	assert.Equal(t, first[0].Key, second[0].Key)
	assert.Equal(t, first[1].Key, second[1].Key)
}

func TestPackageHash(t *testing.T) {
	a := subscriptionItem("a")
	b := subscriptionItem("b")

	assert.Equal(t, PackageHash([]LineItem{a, b}), PackageHash([]LineItem{b, a}))
	assert.NotEqual(t, PackageHash([]LineItem{a}), PackageHash([]LineItem{a, b}))

	more := a
	more.Quantity = 3
	assert.NotEqual(t, PackageHash([]LineItem{a}), PackageHash([]LineItem{more}))
}
