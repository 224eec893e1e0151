// Package timeutil holds duration formatting and sanitizing helpers
// shared by the stats views and the time ledger.
package timeutil

import (
	"fmt"
	"time"
)

// MaxDuration caps any single tracked duration at 24 hours. Anything
// larger is a clock glitch, not study time.
const MaxDuration = 24 * time.Hour

// FormatDuration renders a duration as "2h 5m", "3m 12s" or "45s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	seconds := int(d.Seconds())
	minutes := seconds / 60
	hours := minutes / 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatTimer renders a duration for a live timer display, MM:SS or
// H:MM:SS once an hour is crossed.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}

	total := int(d.Seconds())
	seconds := total % 60
	minutes := (total / 60) % 60
	hours := total / 3600

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Sanitize clamps a duration into [0, MaxDuration].
func Sanitize(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}

// DateString returns t's local calendar day as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
