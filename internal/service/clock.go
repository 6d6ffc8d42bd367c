package service

import (
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// OfficeClock is the single time source for every attendance decision. It
// pins all comparisons to one fixed-UTC-offset zone so the cutoff never
// drifts with the host's locale, and derives the cutoff arithmetically
// instead of parsing formatted strings.
type OfficeClock struct {
	base         Clock
	loc          *time.Location
	cutoffHour   int
	cutoffMinute int
}

// NewOfficeClock builds a clock for a zone at the given offset east of UTC
// in minutes (330 for IST) with a daily cutoff at cutoffHour:cutoffMinute.
// A nil base falls back to the system clock.
func NewOfficeClock(offsetMinutes int, cutoffHour int, cutoffMinute int, base Clock) *OfficeClock {
	if base == nil {
		base = RealClock{}
	}
	return &OfficeClock{
		base:         base,
		loc:          time.FixedZone("office", offsetMinutes*60),
		cutoffHour:   cutoffHour,
		cutoffMinute: cutoffMinute,
	}
}

func (c *OfficeClock) Now() time.Time {
	return c.base.Now().In(c.loc)
}

func (c *OfficeClock) Location() *time.Location {
	return c.loc
}

// OfficeCutoff returns the cutoff instant for the calendar day that date
// falls on in the office zone.
func (c *OfficeClock) OfficeCutoff(date time.Time) time.Time {
	d := date.In(c.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.cutoffHour, c.cutoffMinute, 0, 0, c.loc)
}

// NextCutoff returns the first cutoff instant strictly after now. Fixed
// offsets have no DST, so adding a day is always exact.
func (c *OfficeClock) NextCutoff(now time.Time) time.Time {
	cutoff := c.OfficeCutoff(now)
	if !now.Before(cutoff) {
		cutoff = c.OfficeCutoff(now.In(c.loc).AddDate(0, 0, 1))
	}
	return cutoff
}

// WorkDate returns the attendance day key for an instant, YYYY-MM-DD in
// the office zone.
func (c *OfficeClock) WorkDate(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}
