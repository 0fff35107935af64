package compliance

import "time"

// =============================================================================
// CALENDAR HELPERS - Business days and certification arithmetic
// =============================================================================

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextMonday shifts a weekend date forward to the following Monday.
// Weekday dates are returned unchanged.
func NextMonday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// AddValidity computes an expiration date using calendar-month
// arithmetic (time.AddDate semantics: Jan 31 + 1 month = Mar 3 on
// non-leap years, matching Go's normalized calendar).
func AddValidity(certified time.Time, validityMonths int) time.Time {
	return certified.AddDate(0, validityMonths, 0)
}

// DaysBetween returns the number of whole 24h periods from from to to.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// AtSlot pins a date to one of the two daily session slots (08:00 or
// 14:00), zeroing minutes and seconds.
func AtSlot(date time.Time, morning bool) time.Time {
	hour := 14
	if morning {
		hour = 8
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}
