package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/subscart/subscart/internal/cache"
	"github.com/subscart/subscart/internal/domain/cart"
	"github.com/subscart/subscart/internal/domain/coupon"
	"github.com/subscart/subscart/internal/domain/product"
	"github.com/subscart/subscart/internal/domain/proration"
	"github.com/subscart/subscart/internal/domain/schedule"
	ierr "github.com/subscart/subscart/internal/errors"
	"github.com/subscart/subscart/internal/types"
)

// TotalsResult is the outcome of one totals pass over a cart snapshot.
type TotalsResult struct {
	// InitialTotal is the amount charged today.
	InitialTotal decimal.Decimal `json:"initial_total"`

	// Groups holds one recurring group per distinct schedule key, in
	// first-seen item order.
	Groups []*cart.RecurringGroup `json:"groups"`

	// NeedsPayment reports whether a payment method must be collected
	// even when InitialTotal is zero.
	NeedsPayment bool `json:"needs_payment"`

	// RejectedCoupons carries the typed per-rule rejections of coupons
	// whose class conflicts with the cart's contents.
	RejectedCoupons []*types.CouponValidationError `json:"rejected_coupons,omitempty"`

	// Warnings records groups and items excluded because their billing
	// configuration could not be resolved.
	Warnings []cart.ConfigWarning `json:"warnings,omitempty"`
}

// TotalsService computes a cart's initial total and its recurring groups.
//
// The service is single threaded and synchronous: groups are processed
// sequentially because unit-price resolution depends on the calculation
// mode, and the mode is restored to none on every exit path, including
// errors, so a failed pass never leaves the service stuck in a recurring
// mode for later calls.
type TotalsService interface {
	ComputeTotals(ctx context.Context, c *cart.Cart, dctx types.DateContext) (*TotalsResult, error)

	// CurrentMode exposes the active calculation mode, none outside a pass.
	CurrentMode() types.CalculationMode
}

type totalsService struct {
	ServiceParams
	coupons   coupon.Resolver
	proration proration.Calculator
	mode      types.CalculationMode
}

func NewTotalsService(params ServiceParams) TotalsService {
	return &totalsService{
		ServiceParams: params,
		coupons:       coupon.NewResolver(),
		proration:     proration.NewCalculator(),
		mode:          types.ModeNone(),
	}
}

func (s *totalsService) CurrentMode() types.CalculationMode {
	return s.mode
}

// totalsPass bundles the state scoped to one ComputeTotals call: a fresh
// schedule calculator, a fresh shipping rate cache and the resolved
// billing configs. Nothing in it survives the pass.
type totalsPass struct {
	calc   schedule.Calculator
	rates  cache.Cache
	lookup *passConfigLookup
	dctx   types.DateContext

	// renewalOrderSubtotal is the original renewal order subtotal, the
	// proportional base for renewal_cart coupon division.
	renewalOrderSubtotal decimal.Decimal
}

// passConfigLookup memoizes billing config resolution for the duration of
// one pass, so the classifier and the totals loops see one consistent
// snapshot per product.
type passConfigLookup struct {
	repo product.ConfigRepository
	seen map[string]*product.BillingConfig
	errs map[string]error
}

func newPassConfigLookup(repo product.ConfigRepository) *passConfigLookup {
	return &passConfigLookup{
		repo: repo,
		seen: make(map[string]*product.BillingConfig),
		errs: make(map[string]error),
	}
}

func (l *passConfigLookup) GetBillingConfig(ctx context.Context, productRef string) (*product.BillingConfig, error) {
	if cfg, ok := l.seen[productRef]; ok {
		return cfg, l.errs[productRef]
	}
	cfg, err := l.repo.GetBillingConfig(ctx, productRef)
	l.seen[productRef] = cfg
	l.errs[productRef] = err
	return cfg, err
}

// groupComputation pairs a finished recurring group with the schedule
// facts the needs-payment decision depends on.
type groupComputation struct {
	group        *cart.RecurringGroup
	cfg          *product.BillingConfig
	syncedFuture bool
}

func (s *totalsService) ComputeTotals(ctx context.Context, c *cart.Cart, dctx types.DateContext) (*TotalsResult, error) {
	if c == nil {
		return nil, ierr.NewError("cart is required").
			Mark(ierr.ErrValidation)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := dctx.Validate(); err != nil {
		return nil, err
	}

	// The mode must read as none after every pass, failed ones included.
	defer func() { s.mode = types.ModeNone() }()
	s.mode = types.ModeNone()

	pass := &totalsPass{
		calc:                 schedule.NewCalculator(s.Logger),
		rates:                cache.NewInMemoryCache(),
		lookup:               newPassConfigLookup(s.ProductRepo),
		dctx:                 dctx,
		renewalOrderSubtotal: renewalSubtotalOf(c.Items),
	}

	classifier := cart.NewClassifier(pass.lookup, pass.calc, s.Logger)
	groupings, warnings := classifier.Classify(ctx, c.Items, dctx)

	result := &TotalsResult{
		InitialTotal: decimal.Zero,
		Warnings:     warnings,
	}

	summary := coupon.CartSummary{
		SignUpFeeTotal:       s.signUpFeeTotal(ctx, pass, c.Items),
		ContainsRenewal:      c.ContainsRenewal(),
		ContainsSubscription: c.ContainsSubscription(),
	}
	var accepted []types.CouponRule
	for _, rule := range c.Coupons {
		if cve := coupon.ValidateForCart(rule, summary); cve != nil {
			result.RejectedCoupons = append(result.RejectedCoupons, cve)
			continue
		}
		accepted = append(accepted, rule)
	}

	computations := make([]groupComputation, 0, len(groupings))
	for _, grouping := range groupings {
		comp, err := s.computeGroup(ctx, pass, grouping, accepted)
		if err != nil {
			if ierr.IsSystem(err) {
				return nil, err
			}
			s.Logger.Warnw("dropping recurring group",
				"schedule_key", grouping.Key.String(),
				"error", err)
			result.Warnings = append(result.Warnings, cart.NewConfigWarning(
				grouping.Items[0].ProductRef,
				"recurring group dropped: billing schedule could not be computed"))
			continue
		}
		computations = append(computations, comp)
		result.Groups = append(result.Groups, comp.group)
	}

	initial, err := s.computeInitialTotal(ctx, pass, c, accepted, summary)
	if err != nil {
		return nil, err
	}
	result.InitialTotal = initial

	result.NeedsPayment = s.needsPayment(computations, accepted)

	return result, nil
}

// computeGroup runs one recurring-mode sub-computation. The calculation
// mode is scoped to the call and restored before it returns, whatever the
// outcome.
func (s *totalsService) computeGroup(ctx context.Context, pass *totalsPass, grouping cart.Grouping, accepted []types.CouponRule) (groupComputation, error) {
	dctx := pass.dctx

	rep := grouping.Items[0]
	cfg, err := pass.lookup.GetBillingConfig(ctx, rep.ProductRef)
	if err != nil {
		return groupComputation{}, err
	}
	if cfg == nil {
		return groupComputation{}, ierr.NewError("representative billing config missing").
			WithReportableDetails(map[string]any{"product_ref": rep.ProductRef}).
			Mark(ierr.ErrNotFound)
	}

	sched, err := pass.calc.ComputeSchedule(ctx, cfg, dctx)
	if err != nil {
		return groupComputation{}, err
	}

	mode := types.ModeRecurringTotal(grouping.Key)
	s.mode = mode
	defer func() { s.mode = types.ModeNone() }()

	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	var pkg []cart.LineItem

	for _, item := range grouping.Items {
		itemCfg, _ := pass.lookup.GetBillingConfig(ctx, item.ProductRef)
		if itemCfg == nil {
			itemCfg = cfg
		}

		subtotal = subtotal.Add(unitPrice(mode, item, itemCfg).Mul(decimal.NewFromInt(int64(item.Quantity))))
		tax = tax.Add(item.TaxAmount)

		// One-time-shipping items ship with the initial order only.
		if item.NeedsShipping && !item.OneTimeShippingOnly {
			pkg = append(pkg, item)
		}

		for _, rule := range accepted {
			d, derr := s.coupons.ResolveDiscount(rule, coupon.PricingContext{
				Mode:                 mode,
				RecurringPrice:       item.UnitRecurringPrice,
				SignUpFee:            itemCfg.SignUpFee,
				Quantity:             item.Quantity,
				HasTrial:             itemCfg.HasTrial(),
				IsRenewal:            item.IsRenewal,
				RenewalSubtotal:      item.RenewalSubtotal,
				RenewalOrderSubtotal: pass.renewalOrderSubtotal,
				PriceDecimals:        dctx.PriceDecimals,
			}, item.LineTotal())
			if derr != nil {
				return groupComputation{}, derr
			}
			discount = discount.Add(d)
		}
	}

	shipping := s.shippingRate(ctx, pass, pkg)

	total := subtotal.Sub(discount).Add(shipping).Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}

	group := &cart.RecurringGroup{
		DisplayID:       types.DeterministicIDWithPrefix(types.UUID_PREFIX_RECURRING_GROUP, grouping.Key.String()),
		Key:             grouping.Key,
		Items:           grouping.Items,
		StartDate:       sched.StartDate,
		TrialEndDate:    sched.TrialEndDate,
		NextPaymentDate: sched.NextPaymentDate,
		EndDate:         sched.EndDate,
		RecurringTotal:  total.Round(dctx.PriceDecimals),
		ShippingTotal:   shipping.Round(dctx.PriceDecimals),
		TaxTotal:        tax.Round(dctx.PriceDecimals),
		DiscountTotal:   discount.Round(dctx.PriceDecimals),
	}

	s.Logger.Debugw("computed recurring group",
		"display_id", group.DisplayID,
		"schedule_key", group.Key.String(),
		"recurring_total", group.FormatRecurringTotal(s.currency(), dctx.PriceDecimals))

	return groupComputation{
		group:        group,
		cfg:          cfg,
		syncedFuture: !sched.FirstPaymentDate.IsZero() && sched.FirstPaymentDate.After(dctx.ReferenceInstant),
	}, nil
}

func (s *totalsService) currency() string {
	if s.Config != nil {
		return s.Config.Store.Currency
	}
	return "usd"
}

// computeInitialTotal sums the "pay now" amounts in none mode: sign-up
// fee alone for trialing subscriptions, sign-up fee plus one recurring
// period otherwise (prorated when synchronization calls for it), full
// price for everything else, plus up-front shipping and fees, less
// none-mode coupon discounts.
func (s *totalsService) computeInitialTotal(ctx context.Context, pass *totalsPass, c *cart.Cart, accepted []types.CouponRule, summary coupon.CartSummary) (decimal.Decimal, error) {
	dctx := pass.dctx
	mode := types.ModeNone()

	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	var pkg []cart.LineItem

	// A core coupon's fixed amount is a cart-level cap, not a per-line
	// one. Track the undiscounted remainder per rule so a multi-line
	// cart never takes more than the rule's amount in total.
	coreRemaining := make(map[string]decimal.Decimal)
	for _, rule := range accepted {
		switch rule.DiscountClass {
		case types.CouponClassCore, types.CouponClassInitialCart:
			coreRemaining[rule.Code] = rule.Amount
		}
	}

	allTrial := len(c.Items) > 0

	for _, item := range c.Items {
		var cfg *product.BillingConfig
		if item.IsSubscription {
			cfg, _ = pass.lookup.GetBillingConfig(ctx, item.ProductRef)
			if cfg == nil {
				// Already excluded with a warning during classification.
				allTrial = false
				continue
			}
		}

		hasTrial := cfg != nil && cfg.HasTrial()
		if !hasTrial {
			allTrial = false
		}

		unit := unitPrice(mode, item, cfg)

		// A synchronized wait for the first payment reduces the up-front
		// recurring portion. Trialing items charge the fee alone, which
		// never prorates.
		if cfg != nil && !hasTrial {
			if first, ok := pass.calc.FirstPaymentDate(ctx, cfg, dctx, dctx.ReferenceInstant); ok {
				prorated, perr := s.proration.Prorate(proration.ProrationParams{
					Config:          cfg,
					DateContext:     dctx,
					NextPaymentDate: first,
					FullPrice:       unit,
					NeedsShipping:   item.NeedsShipping,
				})
				if perr != nil {
					return decimal.Zero, perr
				}
				unit = prorated
			}
		}

		charge := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(charge)
		if !hasTrial {
			tax = tax.Add(item.TaxAmount)
		}

		// Trial items ship nothing until their first real payment.
		if item.NeedsShipping && !hasTrial {
			pkg = append(pkg, item)
		}

		signUpFee := decimal.Zero
		if cfg != nil {
			signUpFee = cfg.SignUpFee
		}
		for _, rule := range accepted {
			d, derr := s.coupons.ResolveDiscount(rule, coupon.PricingContext{
				Mode:                 mode,
				RecurringPrice:       item.UnitRecurringPrice,
				SignUpFee:            signUpFee,
				Quantity:             item.Quantity,
				HasTrial:             hasTrial,
				IsRenewal:            item.IsRenewal,
				RenewalSubtotal:      item.RenewalSubtotal,
				RenewalOrderSubtotal: pass.renewalOrderSubtotal,
				PriceDecimals:        dctx.PriceDecimals,
			}, discountBase(rule.DiscountClass, item, charge))
			if derr != nil {
				return decimal.Zero, derr
			}
			if rem, ok := coreRemaining[rule.Code]; ok {
				d = decimal.Min(d, rem)
				coreRemaining[rule.Code] = rem.Sub(d)
			}
			discount = discount.Add(d)
		}
	}

	fees := decimal.Zero
	for _, fee := range c.Fees {
		fees = fees.Add(fee.Amount)
	}
	// Nothing is charged today when every item trials and no sign-up fee
	// exists, so cart fees are waived from the initial pass too.
	if allTrial && !summary.SignUpFeeTotal.IsPositive() {
		fees = decimal.Zero
	}

	shipping := s.shippingRate(ctx, pass, pkg)

	total := subtotal.Sub(discount).Add(shipping).Add(fees).Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(dctx.PriceDecimals), nil
}

// needsPayment decides whether a payment method must be collected, even
// when the initial total is zero.
func (s *totalsService) needsPayment(computations []groupComputation, accepted []types.CouponRule) bool {
	cartHasTrial := false
	cartHasSyncedFuture := false
	for _, comp := range computations {
		if comp.group.HasTrial() {
			cartHasTrial = true
		}
		if comp.syncedFuture {
			cartHasSyncedFuture = true
		}
	}

	for _, comp := range computations {
		if !comp.group.RecurringTotal.IsPositive() {
			continue
		}
		if comp.group.HasMoreThanOnePayment() || cartHasTrial || cartHasSyncedFuture {
			return true
		}
		for _, rule := range accepted {
			if couponExhaustsBeforeEnd(rule, comp.cfg) {
				return true
			}
		}
	}
	return false
}

// couponExhaustsBeforeEnd reports whether a limited-use coupon stops
// discounting while the subscription keeps billing, which turns a
// zero-today cart into one that still needs a payment method.
func couponExhaustsBeforeEnd(rule types.CouponRule, cfg *product.BillingConfig) bool {
	if rule.UsageLimitInPayments <= 0 {
		return false
	}
	if cfg.LengthInPeriods == 0 {
		return true
	}
	return cfg.LengthInPeriods/cfg.IntervalCount > rule.UsageLimitInPayments
}

// signUpFeeTotal sums sign-up fees across the cart's resolvable
// subscription items, the base coupon validation checks sign-up-fee
// coupons against.
func (s *totalsService) signUpFeeTotal(ctx context.Context, pass *totalsPass, items []cart.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !item.IsSubscription {
			continue
		}
		cfg, err := pass.lookup.GetBillingConfig(ctx, item.ProductRef)
		if err != nil || cfg == nil {
			continue
		}
		total = total.Add(cfg.SignUpFee.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// shippingRate resolves the rate for a package, memoized per package
// content hash so the estimator runs at most once per distinct package
// per pass. Estimation failures degrade to a zero rate.
func (s *totalsService) shippingRate(ctx context.Context, pass *totalsPass, pkg []cart.LineItem) decimal.Decimal {
	if len(pkg) == 0 || s.ShippingEstimator == nil {
		return decimal.Zero
	}

	key := cache.PrefixShippingRate + cart.PackageHash(pkg)
	if v, ok := pass.rates.Get(ctx, key); ok {
		return v.(decimal.Decimal)
	}

	rate, err := s.ShippingEstimator.EstimateRate(ctx, pkg)
	if err != nil {
		s.Logger.Warnw("shipping rate estimation failed, charging zero",
			"package_hash", cart.PackageHash(pkg),
			"error", err)
		rate = decimal.Zero
	}

	pass.rates.Set(ctx, key, rate)
	return rate
}

func renewalSubtotalOf(items []cart.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.IsRenewal {
			total = total.Add(item.RenewalSubtotal)
		}
	}
	return total
}
