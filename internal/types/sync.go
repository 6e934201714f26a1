package types

import (
	"github.com/samber/lo"
	ierr "github.com/subscart/subscart/internal/errors"
)

// SyncMode selects which calendar anchor a product's renewals are
// synchronized to, if any.
type SyncMode string

const (
	SyncModeNone     SyncMode = "none"
	SyncModeWeekday  SyncMode = "weekday"
	SyncModeMonthDay SyncMode = "month_day"
	SyncModeYearDate SyncMode = "year_date"
)

var SyncModeValues = []SyncMode{
	SyncModeNone,
	SyncModeWeekday,
	SyncModeMonthDay,
	SyncModeYearDate,
}

func (m SyncMode) String() string {
	return string(m)
}

func (m SyncMode) Validate() error {
	if !lo.Contains(SyncModeValues, m) {
		return ierr.NewError("invalid sync mode").
			WithHint("Sync mode must be one of none, weekday, month_day, year_date").
			WithReportableDetails(map[string]any{
				"allowed_values": SyncModeValues,
				"provided_value": m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SyncLastDayOfMonth is the month_day sentinel meaning "the last day of
// the month", whatever that resolves to for the target month.
const SyncLastDayOfMonth = 28

// SyncSpec describes the calendar anchor of a synchronized product.
// Only the fields for the active mode are meaningful:
//   - weekday: Weekday (ISO, 1=Monday..7=Sunday)
//   - month_day: Day (1..28, 28 means last day of month)
//   - year_date: Month (1..12) and Day (1..31)
//
// A SyncSpec is only meaningful when the billing period is not DAILY.
type SyncSpec struct {
	Mode    SyncMode `json:"mode"`
	Weekday int      `json:"weekday,omitempty"`
	Month   int      `json:"month,omitempty"`
	Day     int      `json:"day,omitempty"`
}

// NoSync returns the zero synchronization spec.
func NoSync() SyncSpec {
	return SyncSpec{Mode: SyncModeNone}
}

// WeekdaySync anchors renewals to an ISO weekday (1=Monday..7=Sunday).
func WeekdaySync(weekday int) SyncSpec {
	return SyncSpec{Mode: SyncModeWeekday, Weekday: weekday}
}

// MonthDaySync anchors renewals to a day of the month. Day 28 means the
// last day of whichever month the payment lands in.
func MonthDaySync(day int) SyncSpec {
	return SyncSpec{Mode: SyncModeMonthDay, Day: day}
}

// YearDateSync anchors renewals to a fixed month and day of the year.
func YearDateSync(month, day int) SyncSpec {
	return SyncSpec{Mode: SyncModeYearDate, Month: month, Day: day}
}

// IsSynced reports whether any synchronization mode is requested.
func (s SyncSpec) IsSynced() bool {
	return s.Mode != SyncModeNone && s.Mode != ""
}

func (s SyncSpec) Validate() error {
	if err := s.Mode.Validate(); err != nil {
		return err
	}

	switch s.Mode {
	case SyncModeWeekday:
		if s.Weekday < 1 || s.Weekday > 7 {
			return ierr.NewError("invalid sync weekday").
				WithHint("Weekday must be between 1 (Monday) and 7 (Sunday)").
				WithReportableDetails(map[string]any{
					"provided_value": s.Weekday,
				}).
				Mark(ierr.ErrValidation)
		}
	case SyncModeMonthDay:
		if s.Day < 1 || s.Day > SyncLastDayOfMonth {
			return ierr.NewError("invalid sync day of month").
				WithHint("Day of month must be between 1 and 28, where 28 means the last day of the month").
				WithReportableDetails(map[string]any{
					"provided_value": s.Day,
				}).
				Mark(ierr.ErrValidation)
		}
	case SyncModeYearDate:
		if s.Month < 1 || s.Month > 12 {
			return ierr.NewError("invalid sync month").
				WithHint("Month must be between 1 and 12").
				WithReportableDetails(map[string]any{
					"provided_value": s.Month,
				}).
				Mark(ierr.ErrValidation)
		}
		if s.Day < 1 || s.Day > 31 {
			return ierr.NewError("invalid sync day of year date").
				WithHint("Day must be between 1 and 31").
				WithReportableDetails(map[string]any{
					"provided_value": s.Day,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}
