// Package timeutil converts between the assistant's wire datetime format
// (ISO-8601 UTC, trailing Z, no fractional seconds) and local wall-clock
// strings for display. Conversion helpers never return an error: on bad
// input they degrade to the input itself or to the supplied current time.
package timeutil

import (
	"time"
)

// UTCLayout is the fixed wire format for every datetime field.
const UTCLayout = "2006-01-02T15:04:05Z"

const displayLayout = "2006-01-02 15:04 MST"

// FormatUTC renders t in the wire format.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(UTCLayout)
}

// ToLocalDisplay converts a UTC ISO-8601 string (trailing Z or +00:00
// offset) into "YYYY-MM-DD HH:MM <zone>" in the named zone, or the system
// local zone when tz is empty. Any parse or zone failure returns the input
// unchanged.
func ToLocalDisplay(utcISO, tz string) string {
	t, err := time.Parse(time.RFC3339, utcISO)
	if err != nil {
		return utcISO
	}
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return utcISO
		}
		loc = l
	}
	return t.In(loc).Format(displayLayout)
}

// ToUTC interprets a calendar date (YYYY-MM-DD) plus an optional clock time
// (HH:MM, midnight when empty) in the named zone (system local when tz is
// empty) and renders the instant in the wire format. Any failure yields now
// in the wire format instead.
func ToUTC(datePart, timePart, tz string, now time.Time) string {
	if timePart == "" {
		timePart = "00:00"
	}
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return FormatUTC(now)
		}
		loc = l
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", datePart+" "+timePart, loc)
	if err != nil {
		return FormatUTC(now)
	}
	return FormatUTC(t)
}
