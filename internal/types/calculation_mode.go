package types

import "fmt"

// CalculationModeKind names the phase a totals pass is in.
type CalculationModeKind string

const (
	// CalculationModeKindNone is the initial "pay now" phase.
	CalculationModeKindNone CalculationModeKind = "none"
	// CalculationModeKindRecurringTotal scopes the pass to one recurring group.
	CalculationModeKindRecurringTotal CalculationModeKind = "recurring_total"
)

// CalculationMode is the single piece of mode state every price and
// discount resolution consults to decide which portion of a price it is
// computing. It is threaded explicitly rather than held in ambient global
// state; the totals engine pushes a recurring mode before each group
// sub-computation and must restore the previous mode on every exit path.
type CalculationMode struct {
	Kind     CalculationModeKind
	GroupKey ScheduleKey
}

// ModeNone returns the initial-total calculation mode.
func ModeNone() CalculationMode {
	return CalculationMode{Kind: CalculationModeKindNone}
}

// ModeRecurringTotal returns the mode scoped to one recurring group.
func ModeRecurringTotal(key ScheduleKey) CalculationMode {
	return CalculationMode{Kind: CalculationModeKindRecurringTotal, GroupKey: key}
}

// IsRecurring reports whether a recurring group total is being computed.
func (m CalculationMode) IsRecurring() bool {
	return m.Kind == CalculationModeKindRecurringTotal
}

func (m CalculationMode) String() string {
	if m.IsRecurring() {
		return fmt.Sprintf("recurring_total(%s)", m.GroupKey)
	}
	return string(CalculationModeKindNone)
}
