package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the canonical text form of a Date
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
// The zero value represents an unknown date.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given calendar day.
// Out-of-range components are normalized the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day in the timestamp's own location
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// UnknownDate returns the unknown date sentinel
func UnknownDate() Date {
	return Date{}
}

// Known reports whether the date holds a value
func (d Date) Known() bool {
	return !d.t.IsZero()
}

// Year returns the calendar year, or 0 if the date is unknown
func (d Date) Year() int {
	if !d.Known() {
		return 0
	}
	return d.t.Year()
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time {
	return d.t
}

// Equal reports whether two dates denote the same day
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String formats the date as YYYY-MM-DD; unknown dates format as ""
func (d Date) String() string {
	if !d.Known() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null when unknown
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
