package attendance

import "time"

// ResolveStatus gives the effective status for a calendar day. A
// recorded status always wins; without a record the day is a Holiday
// when it matches a company holiday, otherwise Present. A day with no
// record is never "unknown".
func ResolveStatus(date time.Time, record *Attendance, holidays map[string]struct{}) string {
	if record != nil {
		return record.Status
	}
	if _, ok := holidays[date.Format("2006-01-02")]; ok {
		return StatusHoliday
	}
	return StatusPresent
}

// startWeekdayOffset is the number of leading padding cells for a
// Sunday-first calendar grid. time.Weekday is already Sunday-based.
func startWeekdayOffset(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return int(first.Weekday())
}

// daysInMonth counts the calendar days of the month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
