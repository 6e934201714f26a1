package cart

import (
	"context"

	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/domain/schedule"
	"github.com/subscart/subscart/internal/logger"
	"github.com/subscart/subscart/internal/types"
)

// Grouping pairs a schedule key with the subscription items that share
// it. The slice form preserves first-seen ordering so repeated passes
// over the same cart produce identical output.
type Grouping struct {
	Key   types.ScheduleKey
	Items []LineItem
}

// Classifier partitions a cart's subscription items into recurring
// groups: two items land in the same group exactly when every one of
// their future payments falls on the same dates at the same cadence.
type Classifier struct {
	products product.ConfigRepository
	calc     schedule.Calculator
	logger   *logger.Logger
}

func NewClassifier(products product.ConfigRepository, calc schedule.Calculator, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Classifier{
		products: products,
		calc:     calc,
		logger:   log,
	}
}

// Classify derives a schedule key for every subscription line item and
// groups items sharing a key. Non-subscription items never receive a key
// and are left out entirely; items whose billing config cannot be
// resolved are excluded with a warning.
func (c *Classifier) Classify(ctx context.Context, items []LineItem, dctx types.DateContext) ([]Grouping, []ConfigWarning) {
	var (
		order    []types.ScheduleKey
		grouped  = make(map[types.ScheduleKey][]LineItem)
		warnings []ConfigWarning
	)

	for _, item := range items {
		if !item.IsSubscription {
			continue
		}

		cfg, err := c.products.GetBillingConfig(ctx, item.ProductRef)
		if err != nil || cfg == nil {
			c.logger.Warnw("excluding item with unresolvable billing config",
				"product_ref", item.ProductRef,
				"error", err)
			warnings = append(warnings, NewConfigWarning(item.ProductRef, "billing config could not be resolved"))
			continue
		}

		key := c.KeyFor(ctx, cfg, dctx)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], item)
	}

	groupings := make([]Grouping, 0, len(order))
	for _, key := range order {
		groupings = append(groupings, Grouping{Key: key, Items: grouped[key]})
	}
	return groupings, warnings
}

// KeyFor derives the canonical schedule key of a billing config under the
// pass date context.
func (c *Classifier) KeyFor(ctx context.Context, cfg *product.BillingConfig, dctx types.DateContext) types.ScheduleKey {
	key := types.ScheduleKey{
		IntervalCount:   cfg.IntervalCount,
		Period:          cfg.PeriodUnit,
		LengthInPeriods: cfg.LengthInPeriods,
	}

	if cfg.HasTrial() {
		key.TrialLength = cfg.TrialLength
		key.TrialUnit = cfg.TrialUnit
	}

	if first, ok := c.calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant); ok {
		key.Synced = true
		local := types.ToSiteLocal(first, dctx.SiteUTCOffsetSeconds)
		key.FirstRenewal = local.Format(types.ScheduleKeyDateLayout)
	}

	return key
}
