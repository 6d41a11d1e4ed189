package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	OccasionBirthday    = "birthday"
	OccasionAnniversary = "anniversary"

	// DefaultToleranceMinutes matches the assumed 15-minute trigger cadence.
	DefaultToleranceMinutes = 15
)

// OccasionToday reports whether the occasion date falls on today's month/day.
// The stored year is ignored; it may be a synthetic placeholder for dates
// entered without one. Feb-29 occasions fire on Feb 28 in non-leap years.
func OccasionToday(today, occasion time.Time) bool {
	month, day := occasion.Month(), occasion.Day()
	if month == time.February && day == 29 && !isLeapYear(today.Year()) {
		day = 28
	}
	return today.Month() == month && today.Day() == day
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// InSendWindow reports whether nowUTC, seen from the user's timezone, lies
// within toleranceMinutes of the user's daily send time. Invalid timezones or
// send times return an error so the caller can skip the user without aborting
// the run.
func InSendWindow(nowUTC time.Time, tz, sendTime string, toleranceMinutes int) (bool, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return false, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	target, err := parseSendTime(sendTime)
	if err != nil {
		return false, err
	}

	local := nowUTC.In(loc)
	minutes := local.Hour()*60 + local.Minute()

	diff := minutes - target
	if diff < 0 {
		diff = -diff
	}
	// A 23:55 send time is 10 minutes from 00:05, not 23 hours.
	if wrapped := 24*60 - diff; wrapped < diff {
		diff = wrapped
	}

	return diff <= toleranceMinutes, nil
}

func parseSendTime(sendTime string) (int, error) {
	parts := strings.SplitN(sendTime, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid send time %q: want HH:MM", sendTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid send time %q: bad hour", sendTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid send time %q: bad minute", sendTime)
	}
	return hour*60 + minute, nil
}
