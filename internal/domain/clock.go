package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidClockTime is returned for wall-clock strings that are not "HH:MM".
var ErrInvalidClockTime = errors.New("invalid time, want HH:MM")

// ClockTime is a time of day with minute precision, independent of any date.
// Shop hours and staff working hours are stored in this form.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, ErrInvalidClockTime
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At anchors the clock time on the given calendar date in UTC.
func (c ClockTime) At(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
