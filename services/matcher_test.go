package services

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestOccasionTodayIgnoresYear(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		occasion time.Time
		want     bool
	}{
		{"same month and day, different year", date(2024, 3, 15), date(1985, 3, 15), true},
		{"placeholder year", date(2024, 3, 15), date(2023, 3, 15), true},
		{"same year same date", date(2024, 3, 15), date(2024, 3, 15), true},
		{"different day", date(2024, 3, 15), date(1985, 3, 16), false},
		{"different month", date(2024, 3, 15), date(1985, 4, 15), false},
		{"day matches across months", date(2024, 4, 15), date(1985, 3, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OccasionToday(tt.today, tt.occasion); got != tt.want {
				t.Errorf("OccasionToday(%v, %v) = %v, want %v", tt.today, tt.occasion, got, tt.want)
			}
		})
	}
}

func TestOccasionTodayFeb29(t *testing.T) {
	leapBirthday := date(2000, 2, 29)

	// Leap year: fires on Feb 29 only
	if !OccasionToday(date(2024, 2, 29), leapBirthday) {
		t.Error("Feb-29 occasion should fire on Feb 29 in a leap year")
	}
	if OccasionToday(date(2024, 2, 28), leapBirthday) {
		t.Error("Feb-29 occasion should not fire on Feb 28 in a leap year")
	}

	// Non-leap year: fires on Feb 28
	if !OccasionToday(date(2023, 2, 28), leapBirthday) {
		t.Error("Feb-29 occasion should fire on Feb 28 in a non-leap year")
	}
	if OccasionToday(date(2023, 3, 1), leapBirthday) {
		t.Error("Feb-29 occasion should not fire on Mar 1")
	}
}

func TestInSendWindowTolerance(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2024, 3, 15, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		now      time.Time
		sendTime string
		want     bool
	}{
		{"exactly on time", at(9, 0), "09:00", true},
		{"five minutes late", at(9, 5), "09:00", true},
		{"fifteen minutes late", at(9, 15), "09:00", true},
		{"fifteen minutes early", at(8, 45), "09:00", true},
		{"sixteen minutes late", at(9, 16), "09:00", false},
		{"sixteen minutes early", at(8, 44), "09:00", false},
		{"wraps across midnight", at(0, 5), "23:55", true},
		{"wraps across midnight other side", at(23, 55), "00:05", true},
		{"far from midnight window", at(12, 0), "23:55", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InSendWindow(tt.now, "UTC", tt.sendTime, DefaultToleranceMinutes)
			if err != nil {
				t.Fatalf("InSendWindow returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("InSendWindow(%v, %q) = %v, want %v", tt.now, tt.sendTime, got, tt.want)
			}
		})
	}
}

func TestInSendWindowTimezoneConversion(t *testing.T) {
	// 03:35 UTC is 09:05 in Asia/Kolkata (UTC+5:30)
	now := time.Date(2024, 3, 15, 3, 35, 0, 0, time.UTC)

	got, err := InSendWindow(now, "Asia/Kolkata", "09:00", DefaultToleranceMinutes)
	if err != nil {
		t.Fatalf("InSendWindow returned error: %v", err)
	}
	if !got {
		t.Error("expected 03:35 UTC to be inside the 09:00 Asia/Kolkata window")
	}

	got, err = InSendWindow(now, "UTC", "09:00", DefaultToleranceMinutes)
	if err != nil {
		t.Fatalf("InSendWindow returned error: %v", err)
	}
	if got {
		t.Error("expected 03:35 UTC to be outside the 09:00 UTC window")
	}
}

func TestInSendWindowFailsClosed(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tz       string
		sendTime string
	}{
		{"invalid timezone", "Mars/Olympus", "09:00"},
		{"empty send time", "UTC", ""},
		{"garbage send time", "UTC", "morning"},
		{"hour out of range", "UTC", "25:00"},
		{"minute out of range", "UTC", "09:61"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InSendWindow(now, tt.tz, tt.sendTime, DefaultToleranceMinutes)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got {
				t.Error("a failed window check must report not-in-window")
			}
		})
	}
}
