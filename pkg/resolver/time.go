package resolver

import (
	"time"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/output"
)

// maxWeekdaySearch bounds the year search for a weekday constrained date.
// The Gregorian weekday pattern repeats every 28 years.
const maxWeekdaySearch = 28

// grounded is one temporal expression pinned to an instant.
type grounded struct {
	at    time.Time
	grain moment.Grain
	// roll moves the instant forward one natural cycle. It is nil when the
	// expression is explicitly anchored and cannot be rolled.
	roll func(time.Time) time.Time
}

type timeResolver struct {
	now       time.Time
	today     time.Time
	grain     moment.Grain
	weekStart time.Weekday
}

func resolveTime(t dimension.Time, ctx Context) (output.Output, error) {
	now := ctx.now()
	r := &timeResolver{
		now:       now,
		today:     moment.Truncate(now, moment.GrainDay, ctx.WeekStart),
		grain:     ctx.DefaultGrain,
		weekStart: ctx.WeekStart,
	}
	if t.Form == dimension.FormInterval {
		return r.interval(t)
	}
	g, err := r.ground(t)
	if err != nil {
		return nil, err
	}
	return output.TimeOutput{Moment: g.at, Grain: g.grain, Precision: t.Precision}, nil
}

func (r *timeResolver) interval(t dimension.Time) (output.Output, error) {
	if t.From == nil || t.To == nil {
		return nil, resolutionErr("interval without bounds")
	}
	if t.From.Form == dimension.FormInterval || t.To.Form == dimension.FormInterval {
		return nil, resolutionErr("nested interval")
	}
	from, err := r.ground(*t.From)
	if err != nil {
		return nil, err
	}

	var to grounded
	if t.To.Form == dimension.FormTimeOfDay && t.To.Clock != nil {
		// A bare end clock lives on the day of the start.
		c := *t.To.Clock
		to = grounded{at: nextClock(c, from.at), grain: c.Grain()}
	} else {
		to, err = r.ground(*t.To)
		if err != nil {
			return nil, err
		}
		if to.at.Before(from.at) {
			if to.roll == nil {
				return nil, resolutionErr("interval ends before it starts")
			}
			to.at = to.roll(to.at)
			if to.at.Before(from.at) {
				return nil, resolutionErr("interval ends before it starts")
			}
		}
	}

	grain := from.grain
	if to.grain < grain {
		grain = to.grain
	}
	return output.TimeIntervalOutput{
		From:  from.at,
		To:    moment.Add(to.at, to.grain, 1),
		Grain: grain,
	}, nil
}

// ground pins a non-interval expression to an instant.
func (r *timeResolver) ground(t dimension.Time) (grounded, error) {
	switch t.Form {
	case dimension.FormNow:
		return grounded{at: moment.Truncate(r.now, r.grain, r.weekStart), grain: r.grain}, nil
	case dimension.FormTimeOfDay:
		if t.Clock == nil {
			return grounded{}, resolutionErr("time of day without a clock")
		}
		c := *t.Clock
		if err := validClock(c); err != nil {
			return grounded{}, err
		}
		floor := moment.Truncate(r.now, c.Grain(), r.weekStart)
		return grounded{at: nextClock(c, floor), grain: c.Grain(), roll: days(1)}, nil
	case dimension.FormInterval:
		return grounded{}, resolutionErr("nested interval")
	}

	g, err := r.groundDay(t)
	if err != nil {
		return grounded{}, err
	}
	if t.Clock != nil {
		c := *t.Clock
		if err := validClock(c); err != nil {
			return grounded{}, err
		}
		g.at = clockOn(g.at, c.Hour, c.Minute)
		g.grain = c.Grain()
	}
	return g, nil
}

// groundDay handles the calendar forms: shifts, weekdays, months, cycles and dates.
func (r *timeResolver) groundDay(t dimension.Time) (grounded, error) {
	switch t.Form {
	case dimension.FormShift:
		grain := moment.GrainDay
		if t.ShiftGrain < moment.GrainDay {
			grain = t.ShiftGrain - 1
			if grain < moment.GrainSecond {
				grain = moment.GrainSecond
			}
		}
		at := moment.Truncate(t.Shift.ApplyTo(r.now), grain, r.weekStart)
		return grounded{at: at, grain: grain}, nil

	case dimension.FormDayOfWeek:
		if !t.HasWeekday {
			return grounded{}, resolutionErr("day of week without a weekday")
		}
		return r.weekday(t.Weekday, t.Direction), nil

	case dimension.FormMonth:
		if t.Month < time.January || t.Month > time.December {
			return grounded{}, resolutionErr("invalid month %d", t.Month)
		}
		year := r.now.Year()
		switch t.Direction {
		case dimension.DirNext:
			if t.Month <= r.now.Month() {
				year++
			}
		case dimension.DirLast:
			if t.Month >= r.now.Month() {
				year--
			}
		default:
			if t.Month < r.now.Month() {
				year++
			}
		}
		g := grounded{at: time.Date(year, t.Month, 1, 0, 0, 0, 0, r.now.Location()), grain: moment.GrainMonth}
		if t.Direction == dimension.DirNone || t.Direction == dimension.DirThis {
			g.roll = years(1)
		}
		return g, nil

	case dimension.FormCycle:
		n := 0
		switch t.Direction {
		case dimension.DirNext:
			n = 1
		case dimension.DirLast:
			n = -1
		}
		start := moment.Truncate(r.now, t.ShiftGrain, r.weekStart)
		return grounded{at: moment.Add(start, t.ShiftGrain, n), grain: t.ShiftGrain}, nil

	case dimension.FormDate:
		return r.date(t)
	}
	return grounded{}, resolutionErr("unsupported time form %s", t.Form)
}

// weekday: bare and "this" include today, "next" is strictly after today,
// "last" strictly before.
func (r *timeResolver) weekday(wd time.Weekday, dir dimension.Direction) grounded {
	ahead := (int(wd) - int(r.today.Weekday()) + 7) % 7
	g := grounded{grain: moment.GrainDay}
	switch dir {
	case dimension.DirNext:
		if ahead == 0 {
			ahead = 7
		}
		g.at = r.today.AddDate(0, 0, ahead)
	case dimension.DirLast:
		back := (int(r.today.Weekday()) - int(wd) + 7) % 7
		if back == 0 {
			back = 7
		}
		g.at = r.today.AddDate(0, 0, -back)
	default:
		g.at = r.today.AddDate(0, 0, ahead)
		g.roll = days(7)
	}
	return g
}

func (r *timeResolver) date(t dimension.Time) (grounded, error) {
	loc := r.now.Location()
	matches := func(y int, m time.Month, d int) bool {
		if !validDate(y, m, d) {
			return false
		}
		return !t.HasWeekday || time.Date(y, m, d, 0, 0, 0, 0, loc).Weekday() == t.Weekday
	}

	switch {
	case t.Year != 0 && t.Month == 0:
		if t.Day != 0 {
			return grounded{}, resolutionErr("day without a month")
		}
		return grounded{at: time.Date(t.Year, time.January, 1, 0, 0, 0, 0, loc), grain: moment.GrainYear}, nil

	case t.Year != 0 && t.Day == 0:
		if t.Month < time.January || t.Month > time.December {
			return grounded{}, resolutionErr("invalid month %d", t.Month)
		}
		return grounded{at: time.Date(t.Year, t.Month, 1, 0, 0, 0, 0, loc), grain: moment.GrainMonth}, nil

	case t.Year != 0:
		if !validDate(t.Year, t.Month, t.Day) {
			return grounded{}, resolutionErr("invalid date %04d-%02d-%02d", t.Year, t.Month, t.Day)
		}
		if !matches(t.Year, t.Month, t.Day) {
			return grounded{}, resolutionErr("%04d-%02d-%02d is not a %s", t.Year, t.Month, t.Day, t.Weekday)
		}
		return grounded{at: time.Date(t.Year, t.Month, t.Day, 0, 0, 0, 0, loc), grain: moment.GrainDay}, nil

	case t.Month != 0:
		// 2000 is a leap year so February 29 passes.
		if !validDate(2000, t.Month, t.Day) {
			return grounded{}, resolutionErr("invalid date %s %d", t.Month, t.Day)
		}
		for y := r.today.Year(); y <= r.today.Year()+maxWeekdaySearch; y++ {
			at := time.Date(y, t.Month, t.Day, 0, 0, 0, 0, loc)
			if !matches(y, t.Month, t.Day) || at.Before(r.today) {
				continue
			}
			return grounded{at: at, grain: moment.GrainDay, roll: years(1)}, nil
		}
		return grounded{}, resolutionErr("no %s %s %d found", t.Weekday, t.Month, t.Day)

	case t.Day != 0:
		if t.Day > 31 {
			return grounded{}, resolutionErr("invalid day of month %d", t.Day)
		}
		first := time.Date(r.today.Year(), r.today.Month(), 1, 0, 0, 0, 0, loc)
		for i := 0; i < 12*maxWeekdaySearch; i++ {
			month := first.AddDate(0, i, 0)
			y, m := month.Year(), month.Month()
			at := time.Date(y, m, t.Day, 0, 0, 0, 0, loc)
			if !matches(y, m, t.Day) || at.Before(r.today) {
				continue
			}
			return grounded{at: at, grain: moment.GrainDay, roll: months(1)}, nil
		}
		return grounded{}, resolutionErr("no day %d found", t.Day)
	}
	return grounded{}, resolutionErr("empty date")
}

// ============================================================================
// Helpers
// ============================================================================

func validDate(y int, m time.Month, d int) bool {
	if m < time.January || m > time.December || d < 1 {
		return false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Day() == d
}

func validClock(c dimension.Clock) error {
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return resolutionErr("invalid time of day %02d:%02d", c.Hour, c.Minute)
	}
	return nil
}

func clockOn(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

// nextClock returns the first occurrence of c at or after floor. An
// ambiguous hour may be read either side of noon.
func nextClock(c dimension.Clock, floor time.Time) time.Time {
	hours := []int{c.Hour}
	if c.Ambiguous && c.Hour >= 1 && c.Hour <= 12 {
		hours = []int{c.Hour % 12, c.Hour%12 + 12}
	}
	var best time.Time
	for d := 0; d < 2; d++ {
		day := floor.AddDate(0, 0, d)
		for _, h := range hours {
			cand := clockOn(day, h, c.Minute)
			if cand.Before(floor) {
				continue
			}
			if best.IsZero() || cand.Before(best) {
				best = cand
			}
		}
	}
	return best
}

func days(n int) func(time.Time) time.Time {
	return func(t time.Time) time.Time { return t.AddDate(0, 0, n) }
}

func months(n int) func(time.Time) time.Time {
	return func(t time.Time) time.Time { return t.AddDate(0, n, 0) }
}

func years(n int) func(time.Time) time.Time {
	return func(t time.Time) time.Time { return t.AddDate(n, 0, 0) }
}
