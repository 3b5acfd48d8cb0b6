// Package daykey turns wall-clock instants into game-day identifiers.
//
// A game day is a YYYY-MM-DD date in a fixed reference timezone. The day
// rolls over at 00:01 local time rather than midnight: during the first
// minute after midnight the previous day's key is still returned so that
// instances with slightly skewed clocks agree across the transition.
package daykey

import (
	"fmt"
	"time"
)

// Layout is the DayKey format.
const Layout = "2006-01-02"

// DefaultTimezone is the reference timezone of the game.
const DefaultTimezone = "America/New_York"

// Holdover is how long after local midnight the previous day is still current.
const Holdover = time.Minute

// Calculator computes day keys in a single location.
type Calculator struct {
	loc *time.Location
}

// New returns a Calculator for loc. A nil loc means UTC.
func New(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// Load returns a Calculator for the named IANA timezone.
func Load(name string) (*Calculator, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the reference timezone.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Key returns the DayKey for t.
func (c *Calculator) Key(t time.Time) string {
	local := t.In(c.loc)
	if local.Hour() == 0 && local.Minute() < int(Holdover/time.Minute) {
		// Step back one calendar day rather than 24h: across a spring-forward
		// night t-24h lands two dates back.
		y, m, d := local.Date()
		return time.Date(y, m, d-1, 12, 0, 0, 0, c.loc).Format(Layout)
	}
	return local.Format(Layout)
}

// NextRoll returns the first local 00:01 strictly after t.
func (c *Calculator) NextRoll(t time.Time) time.Time {
	local := t.In(c.loc)
	y, m, d := local.Date()
	roll := time.Date(y, m, d, 0, 1, 0, 0, c.loc)
	if !roll.After(t) {
		roll = time.Date(y, m, d+1, 0, 1, 0, 0, c.loc)
	}
	return roll
}

// Parse validates a DayKey string and returns local midnight of that day.
func (c *Calculator) Parse(day string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, day, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}
