// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// NextOccurrence returns the next calendar occurrence of an occasion date on
// or after today, ignoring the stored year.
func NextOccurrence(today, occasion time.Time) time.Time {
	next := time.Date(today.Year(), occasion.Month(), occasion.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(BeginningOfDay(today)) {
		next = next.AddDate(1, 0, 0)
	}
	return next
}
