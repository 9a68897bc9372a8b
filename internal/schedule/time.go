// Package schedule computes when each countdown entry next happens and
// turns the upcoming list into display rows.
package schedule

import (
	"fmt"
	"time"
)

// MinutesPerDay is the wraparound used for times already passed today.
const MinutesPerDay = 24 * 60

// Time is a daily occurrence. A wildcard time happens every hour at Min.
type Time struct {
	Hour     int  `json:"hour"`
	Min      int  `json:"min"`
	Wildcard bool `json:"wildcard,omitempty"`
}

// At returns a fixed time of day.
func At(hour, min int) Time {
	return Time{Hour: hour, Min: min}
}

// EveryHour returns a time that recurs each hour at min.
func EveryHour(min int) Time {
	return Time{Min: min, Wildcard: true}
}

// String formats the time as "HH:MM" or "*:MM".
func (t Time) String() string {
	if t.Wildcard {
		return fmt.Sprintf("*:%02d", t.Min)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Min)
}

// NextOccurrence resolves a wildcard to a fixed time: this hour if its
// minute has not passed yet, otherwise the next hour.
func NextOccurrence(t Time, now time.Time) Time {
	if !t.Wildcard {
		return t
	}
	if now.Minute() <= t.Min {
		return At(now.Hour(), t.Min)
	}
	return At((now.Hour()+1)%24, t.Min)
}

// MinutesUntil returns whole minutes from now until t. A time earlier today
// is taken to mean tomorrow; the current minute counts as zero.
func MinutesUntil(t Time, now time.Time) int {
	t = NextOccurrence(t, now)
	h, m := now.Hour(), now.Minute()

	offset := 0
	if h > t.Hour || (h == t.Hour && m > t.Min) {
		offset = MinutesPerDay
	}
	return offset + (t.Hour-h)*60 + (t.Min - m)
}
