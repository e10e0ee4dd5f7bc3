package market

import "time"

// Day truncates t to midnight UTC. All simulation dates are day-granular.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether t falls on a weekday. No holiday calendar
// is modeled.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// TradingDays returns every weekday in [start, end], inclusive, normalized
// to midnight UTC.
func TradingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			days = append(days, d)
		}
	}
	return days
}
