package datetime

import (
	"errors"
	"strings"
	"time"
)

// The attendance capture subsystem stores dates and times as text and is not
// consistent about it: a date column may carry a full datetime, and a time
// column may carry a leading date. Everything is normalized here, once, at
// the read boundary; nothing downstream re-parses raw strings.

var ErrUnparsableDate = errors.New("unparsable date value")
var ErrUnparsableTime = errors.New("unparsable time value")

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate extracts the calendar-day component from s, tolerating a trailing
// time component. The result is midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparsableDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrUnparsableDate
}

// ParseTimeOfDay extracts the time-of-day component from s, tolerating a
// leading date component. The result is anchored on the zero date so only
// hour, minute and second carry meaning.
func ParseTimeOfDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparsableTime
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrUnparsableTime
}

// Combine anchors a time-of-day on a calendar day.
func Combine(date, timeOfDay time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0,
		time.UTC,
	)
}

// MinutesOfDay returns the time-of-day expressed as minutes since midnight,
// used for overnight-shift comparisons.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
