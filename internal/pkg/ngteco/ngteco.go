// Package ngteco normalizes the date and clock strings found in NGTeco
// terminal exports. Exports differ by firmware and locale, so every parser
// tries a fixed list of layouts in order.
package ngteco

import (
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

// ParseDate normalizes a device date to YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// ParseClock normalizes a device clock to HH:mm:ss.
func ParseClock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), true
		}
	}
	return "", false
}

// ParseDateTime splits an att_date value. Some firmware writes the clock
// into att_date ("2024-03-01 08:02:11"); others leave it to attendance_status.
// hasClock reports whether a clock was found in s.
func ParseDateTime(s string) (date string, clock string, hasClock bool, ok bool) {
	s = strings.TrimSpace(strings.Replace(s, "T", " ", 1))
	datePart, clockPart, found := strings.Cut(s, " ")
	date, ok = ParseDate(datePart)
	if !ok {
		return "", "", false, false
	}
	if !found {
		return date, "", false, true
	}
	clock, ok = ParseClock(clockPart)
	if !ok {
		return "", "", false, false
	}
	return date, clock, true, true
}
