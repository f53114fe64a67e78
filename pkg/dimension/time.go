package dimension

import (
	"time"

	"github.com/kittclouds/ontokit/pkg/moment"
)

// TimeForm is the shape of a temporal expression before grounding.
type TimeForm int

const (
	FormNow       TimeForm = iota // "now"
	FormShift                     // relative to the reference: today, in 3 days, 2 hours ago
	FormDayOfWeek                 // friday, next friday
	FormMonth                     // may
	FormDate                      // may 12, 2019-05-12, friday the 12th of may
	FormCycle                     // next week, this month
	FormTimeOfDay                 // 5pm, at 10:30
	FormInterval                  // from 3pm to 5pm
)

var formNames = [...]string{
	FormNow:       "now",
	FormShift:     "shift",
	FormDayOfWeek: "day-of-week",
	FormMonth:     "month",
	FormDate:      "date",
	FormCycle:     "cycle",
	FormTimeOfDay: "time-of-day",
	FormInterval:  "interval",
}

func (f TimeForm) String() string {
	if f >= 0 && int(f) < len(formNames) {
		return formNames[f]
	}
	return "unknown"
}

// Direction selects an occurrence relative to the reference instant.
type Direction int

const (
	DirNone Direction = iota
	DirThis
	DirNext
	DirLast
)

// Clock is a time of day. Ambiguous clocks (written 1..12 without am/pm)
// resolve to whichever of h and h+12 comes first.
type Clock struct {
	Hour      int
	Minute    int
	Ambiguous bool
	Precise   bool // minutes were written out
}

// Grain is hour for "5pm" and minute for "5:30".
func (c Clock) Grain() moment.Grain {
	if c.Precise || c.Minute != 0 {
		return moment.GrainMinute
	}
	return moment.GrainHour
}

// Time is an ungrounded temporal expression. Which fields are meaningful
// depends on Form; Clock may be attached to any day-like form.
type Time struct {
	Form TimeForm

	Shift      moment.Period // FormShift
	ShiftGrain moment.Grain  // FormShift, FormCycle

	Weekday    time.Weekday
	HasWeekday bool
	Direction  Direction

	Year  int        // 0 when unspecified
	Month time.Month // 0 when unspecified
	Day   int        // 0 when unspecified

	Clock *Clock

	From *Time // FormInterval
	To   *Time // FormInterval

	Precision Precision
	IsLatent  bool
}

func (Time) Kind() Kind { return KindTime }
func (t Time) Latent() bool { return t.IsLatent }

// Grain is the natural granularity of the expression. The second return is
// false when the expression does not determine one ("now").
func (t Time) Grain() (moment.Grain, bool) {
	if t.Clock != nil {
		return t.Clock.Grain(), true
	}
	switch t.Form {
	case FormNow:
		return moment.GrainSecond, false
	case FormShift, FormCycle:
		return t.ShiftGrain, true
	case FormDayOfWeek:
		return moment.GrainDay, true
	case FormDate:
		switch {
		case t.Day != 0:
			return moment.GrainDay, true
		case t.Month != 0:
			return moment.GrainMonth, true
		}
		return moment.GrainYear, true
	case FormMonth:
		return moment.GrainMonth, true
	case FormInterval:
		if t.From != nil {
			return t.From.Grain()
		}
	}
	return moment.GrainSecond, false
}

// IsDayLike reports whether a clock time can be attached to the expression.
func (t Time) IsDayLike() bool {
	if t.Clock != nil {
		return false
	}
	switch t.Form {
	case FormDayOfWeek:
		return true
	case FormDate:
		return t.Day != 0
	case FormShift:
		return t.ShiftGrain == moment.GrainDay
	}
	return false
}

// WithClock returns a copy of t at the given time of day.
func (t Time) WithClock(c Clock) Time {
	t.Clock = &c
	return t
}
