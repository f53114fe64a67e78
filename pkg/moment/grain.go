// Package moment provides calendar grains, truncation and shifting in a time zone.
package moment

import (
	"fmt"
	"strings"
	"time"
)

// Grain is a temporal granularity, finest first.
type Grain int

const (
	GrainSecond Grain = iota
	GrainMinute
	GrainHour
	GrainDay
	GrainWeek
	GrainMonth
	GrainQuarter
	GrainYear
)

var grainNames = [...]string{
	GrainSecond:  "second",
	GrainMinute:  "minute",
	GrainHour:    "hour",
	GrainDay:     "day",
	GrainWeek:    "week",
	GrainMonth:   "month",
	GrainQuarter: "quarter",
	GrainYear:    "year",
}

func (g Grain) String() string {
	if g >= 0 && int(g) < len(grainNames) {
		return grainNames[g]
	}
	return fmt.Sprintf("Grain(%d)", int(g))
}

// ParseGrain parses a grain name, singular or plural, case-insensitive.
func ParseGrain(s string) (Grain, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for g, n := range grainNames {
		if n == name {
			return Grain(g), nil
		}
	}
	return 0, fmt.Errorf("moment: unknown grain %q", s)
}

// MarshalText encodes the grain by name.
func (g Grain) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a grain name.
func (g *Grain) UnmarshalText(b []byte) error {
	parsed, err := ParseGrain(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Truncate returns the start of the grain containing t, in t's location.
// Weeks start on weekStart.
func Truncate(t time.Time, g Grain, weekStart time.Weekday) time.Time {
	loc := t.Location()
	y, m, d := t.Date()
	switch g {
	case GrainSecond:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case GrainMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case GrainHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case GrainDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case GrainWeek:
		back := (int(t.Weekday()) - int(weekStart) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case GrainMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case GrainQuarter:
		q := (int(m) - 1) / 3
		return time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Add shifts t by n units of g. Calendar grains use civil arithmetic so a
// shift by days keeps the wall clock across DST changes.
func Add(t time.Time, g Grain, n int) time.Time {
	switch g {
	case GrainSecond:
		return t.Add(time.Duration(n) * time.Second)
	case GrainMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case GrainHour:
		return t.Add(time.Duration(n) * time.Hour)
	case GrainDay:
		return t.AddDate(0, 0, n)
	case GrainWeek:
		return t.AddDate(0, 0, 7*n)
	case GrainMonth:
		return t.AddDate(0, n, 0)
	case GrainQuarter:
		return t.AddDate(0, 3*n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

// Approx returns the nominal length of one unit of g.
func (g Grain) Approx() time.Duration {
	switch g {
	case GrainSecond:
		return time.Second
	case GrainMinute:
		return time.Minute
	case GrainHour:
		return time.Hour
	case GrainDay:
		return 24 * time.Hour
	case GrainWeek:
		return 7 * 24 * time.Hour
	case GrainMonth:
		return 30 * 24 * time.Hour
	case GrainQuarter:
		return 91 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}
