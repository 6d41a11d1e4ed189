package utils

import (
	"testing"
	"time"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9876543210", "9876543210", false},
		{"+919876543210", "9876543210", false},
		{"919876543210", "9876543210", false},
		{"09876543210", "9876543210", false},
		{"91 8765 432 109", "8765432109", false},
		{"+91-98765-43210", "9876543210", false},
		{"(091) 98765 43210", "", true}, // 13 digits after stripping
		{"5876543210", "", true},        // landline range
		{"98765", "", true},
		{"98765432101234", "", true},
		{"", "", true},
		{"abcdefghij", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizePhone(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePhone(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateSendTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "9:05", "23:59", "12:30"}
	for _, in := range valid {
		if !ValidateSendTime(in) {
			t.Errorf("ValidateSendTime(%q) = false, want true", in)
		}
	}
	invalid := []string{"24:00", "09:60", "9", "09:5", "nine o'clock", "", "09:00:00"}
	for _, in := range invalid {
		if ValidateSendTime(in) {
			t.Errorf("ValidateSendTime(%q) = true, want false", in)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("priya@example.com") {
		t.Error("plain address should validate")
	}
	if !ValidateEmail("  priya@example.com ") {
		t.Error("surrounding whitespace should be tolerated")
	}
	for _, in := range []string{"", "priya", "priya@", "@example.com", "priya@example"} {
		if ValidateEmail(in) {
			t.Errorf("ValidateEmail(%q) = true, want false", in)
		}
	}
}

func TestNextOccurrence(t *testing.T) {
	today := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	// Later this year.
	got := NextOccurrence(today, time.Date(1990, 6, 10, 0, 0, 0, 0, time.UTC))
	if got.Year() != 2025 || got.Month() != 6 || got.Day() != 10 {
		t.Errorf("NextOccurrence = %v, want 2025-06-10", got)
	}

	// Today counts as the next occurrence.
	got = NextOccurrence(today, time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC))
	if got.Year() != 2025 || got.Month() != 3 || got.Day() != 15 {
		t.Errorf("NextOccurrence = %v, want 2025-03-15", got)
	}

	// Already passed this year, rolls to next.
	got = NextOccurrence(today, time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC))
	if got.Year() != 2026 || got.Month() != 1 || got.Day() != 2 {
		t.Errorf("NextOccurrence = %v, want 2026-01-02", got)
	}
}
