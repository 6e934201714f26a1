package types

import (
	"fmt"
	"strings"
)

// ScheduleKeyDateLayout is the date-only component of a synchronized
// schedule key, in site-local terms.
const ScheduleKeyDateLayout = "2006_01_02"

// ScheduleKey identifies a future billing schedule. Two cart items carry
// an equal key if and only if every one of their payments falls on the
// same dates at the same cadence, which makes the key the partitioning
// relation for recurring groups.
//
// The key is a comparable struct rather than a formatted string so that
// equality never depends on rendering. String is for display and logging.
type ScheduleKey struct {
	// FirstRenewal is the date component of the synchronized first
	// payment (ScheduleKeyDateLayout), empty when not synchronized.
	FirstRenewal string

	IntervalCount   int
	Period          BillingPeriod
	LengthInPeriods int

	TrialLength int
	TrialUnit   BillingPeriod

	Synced bool
}

// IsZero reports whether the key was never assigned, which is the case
// for non-subscription items.
func (k ScheduleKey) IsZero() bool {
	return k == ScheduleKey{}
}

// String renders the canonical schedule token, for example
// "2026_10_15_every_2nd_month_for_12_months_after_a_7_day_trial_synced".
func (k ScheduleKey) String() string {
	var b strings.Builder

	if k.Synced && k.FirstRenewal != "" {
		b.WriteString(k.FirstRenewal)
		b.WriteString("_")
	}

	b.WriteString(cadenceToken(k.IntervalCount, k.Period))

	if k.LengthInPeriods > 0 {
		noun := k.Period.SingularNoun()
		if k.LengthInPeriods > 1 {
			noun += "s"
		}
		fmt.Fprintf(&b, "_for_%d_%s", k.LengthInPeriods, noun)
	}

	if k.TrialLength > 0 {
		fmt.Fprintf(&b, "_after_a_%d_%s_trial", k.TrialLength, k.TrialUnit.SingularNoun())
	}

	if k.Synced {
		b.WriteString("_synced")
	}

	return b.String()
}

// cadenceToken renders the billing cadence: "daily", "weekly", "monthly",
// "yearly" for single intervals and "every_2nd_month" style tokens for
// larger ones.
func cadenceToken(interval int, period BillingPeriod) string {
	if interval <= 1 {
		switch period {
		case BILLING_PERIOD_DAILY:
			return "daily"
		case BILLING_PERIOD_WEEKLY:
			return "weekly"
		case BILLING_PERIOD_MONTHLY:
			return "monthly"
		case BILLING_PERIOD_ANNUAL:
			return "yearly"
		default:
			return strings.ToLower(string(period))
		}
	}
	return fmt.Sprintf("every_%s_%s", ordinal(interval), period.SingularNoun())
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
