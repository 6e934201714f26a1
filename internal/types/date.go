package types

import (
	"fmt"
	"time"
)

// paymentHour is the site-local hour every computed payment instant is
// normalized to, so that daylight-saving shifts never move a payment
// across a day boundary.
const paymentHour = 3

// AddPeriods advances t by n billing periods of the given unit.
// For example:
// - If the period is MONTHLY and n is 2, we add two months.
// - If the period is ANNUAL and n is 1, we add one year.
// - If the period is WEEKLY and n is 3, we add 21 days (3 weeks).
// - If the period is DAILY and n is 10, we add 10 days.
// Month and year additions clamp to the last valid day of the target
// month instead of spilling into the next one.
func AddPeriods(t time.Time, n int, period BillingPeriod) (time.Time, error) {
	switch period {
	case BILLING_PERIOD_DAILY:
		return AddClampedDate(t, 0, 0, n), nil
	case BILLING_PERIOD_WEEKLY:
		return AddClampedDate(t, 0, 0, 7*n), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(t, 0, n, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(t, n, 0, 0), nil
	default:
		return t, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// AddClampedDate adds years, months and days to t, clamping the day of
// month to the last valid day of the resulting month. Unlike
// time.AddDate, adding one month to January 31st lands on the last day
// of February rather than March.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := lastDayOfMonth(newY, newM, t.Location())
	newD := d
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location()).AddDate(0, 0, days)
}

func lastDayOfMonth(year int, month time.Month, loc *time.Location) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// ISOWeekday returns the ISO-8601 weekday of t, 1=Monday..7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DaysInMonth returns the number of days in t's month. Billing cycle
// sizing must call this with the target payment date, not the reference
// date, so February cycles are 28 or 29 days regardless of when the
// customer signed up.
func DaysInMonth(t time.Time) int {
	return lastDayOfMonth(t.Year(), t.Month(), t.Location())
}

// DaysInYear returns 365 or 366 depending on whether t's year is a leap year.
func DaysInYear(t time.Time) int {
	if lastDayOfMonth(t.Year(), time.February, t.Location()) == 29 {
		return 366
	}
	return 365
}

// ToSiteLocal shifts a UTC instant into the store's local clock. The
// result still carries the UTC location; only the wall-clock reading is
// shifted, which keeps day arithmetic exact.
func ToSiteLocal(t time.Time, utcOffsetSeconds int) time.Time {
	return t.UTC().Add(time.Duration(utcOffsetSeconds) * time.Second)
}

// ToUTC undoes ToSiteLocal.
func ToUTC(siteLocal time.Time, utcOffsetSeconds int) time.Time {
	return siteLocal.Add(-time.Duration(utcOffsetSeconds) * time.Second)
}

// NormalizePaymentTime pins a site-local instant to 03:00 on the same
// calendar day.
func NormalizePaymentTime(siteLocal time.Time) time.Time {
	y, m, d := siteLocal.Date()
	return time.Date(y, m, d, paymentHour, 0, 0, 0, siteLocal.Location())
}

// SameCalendarDay reports whether two UTC instants fall on the same
// calendar day of the store's local clock.
func SameCalendarDay(a, b time.Time, utcOffsetSeconds int) bool {
	al := ToSiteLocal(a, utcOffsetSeconds)
	bl := ToSiteLocal(b, utcOffsetSeconds)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}

// MidnightOf truncates a site-local instant to the start of its calendar day.
func MidnightOf(siteLocal time.Time) time.Time {
	y, m, d := siteLocal.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, siteLocal.Location())
}

// DaysBetween counts whole calendar days from a to b, both site-local.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(MidnightOf(b).Sub(MidnightOf(a)) / (24 * time.Hour))
}
