package core

import (
	"time"
)

// Timestamp is a UTC instant stamped on reports
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

func (t Timestamp) String() string { return t.Time().Format(time.RFC3339) }

// DrawDateLayout is the calendar date format used by draw histories.
const DrawDateLayout = "2006-01-02"

// ParseDrawDate parses a draw date in either YYYY-MM-DD or YYYY.MM.DD form.
func ParseDrawDate(s string) (time.Time, error) {
	if t, err := time.Parse(DrawDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("2006.01.02", s)
}
