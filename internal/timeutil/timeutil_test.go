package timeutil

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{45 * time.Second, "45s"},
		{3*time.Minute + 12*time.Second, "3m 12s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{2*time.Hour + 5*time.Minute + 59*time.Second, "2h 5m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatTimer(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{9 * time.Second, "0:09"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, c := range cases {
		if got := FormatTimer(c.in); got != c.want {
			t.Errorf("FormatTimer(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize(-time.Minute); got != 0 {
		t.Errorf("Sanitize(-1m) = %v, want 0", got)
	}
	if got := Sanitize(48 * time.Hour); got != MaxDuration {
		t.Errorf("Sanitize(48h) = %v, want %v", got, MaxDuration)
	}
	if got := Sanitize(time.Minute); got != time.Minute {
		t.Errorf("Sanitize(1m) = %v, want 1m", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	b := time.Date(2025, 3, 11, 0, 1, 0, 0, time.Local)
	if SameDay(a, b) {
		t.Error("expected different days across midnight")
	}
	if !SameDay(a, a.Add(-time.Hour)) {
		t.Error("expected same day within one day")
	}
}

func TestDateString(t *testing.T) {
	d := time.Date(2025, 3, 5, 8, 0, 0, 0, time.Local)
	if got := DateString(d); got != "2025-03-05" {
		t.Errorf("DateString = %q, want 2025-03-05", got)
	}
}
