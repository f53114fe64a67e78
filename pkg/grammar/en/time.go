package en

import (
	"strings"
	"time"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/rules"
)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var cycles = map[string]moment.Grain{
	"week": moment.GrainWeek, "month": moment.GrainMonth,
	"quarter": moment.GrainQuarter, "year": moment.GrainYear,
}

var directions = map[string]dimension.Direction{
	"this": dimension.DirThis, "coming": dimension.DirNext, "next": dimension.DirNext,
	"last": dimension.DirLast, "past": dimension.DirLast, "previous": dimension.DirLast,
}

var relativeDays = map[string]int{
	"today": 0, "tomorrow": 1, "tmrw": 1, "yesterday": -1,
}

func dayShift(n int) dimension.Time {
	return dimension.Time{Form: dimension.FormShift, ShiftGrain: moment.GrainDay, Shift: moment.PeriodOf(moment.GrainDay, n)}
}

func clockTime(c dimension.Clock, latent bool) dimension.Time {
	return dimension.Time{Form: dimension.FormTimeOfDay, Clock: &c, IsLatent: latent}
}

func hourClock(h int) dimension.Clock {
	return dimension.Clock{Hour: h, Ambiguous: h >= 1 && h <= 12}
}

// ============================================================================
// Predicates
// ============================================================================

var (
	dayLike = rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool { return t.IsDayLike() }))

	plainDayOfWeek = rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
		return t.Form == dimension.FormDayOfWeek && t.Direction == dimension.DirNone && t.Clock == nil
	}))

	plainMonth = rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
		return t.Form == dimension.FormMonth && t.Direction == dimension.DirNone
	}))

	dayOfMonth = rules.Dim(dimension.KindNumber, intBetween(1, 31))

	ordinalDay = rules.Dim(dimension.KindOrdinal, ordinalBetween(1, 31))

	clock = rules.Dim(dimension.KindTime, func(d dimension.Dimension) bool {
		t := d.(dimension.Time)
		return !t.IsLatent && t.Form == dimension.FormTimeOfDay
	})

	hour12 = rules.Dim(dimension.KindNumber, intBetween(1, 12))

	intervalBound = rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
		return t.Form != dimension.FormInterval && t.Form != dimension.FormNow
	}))

	strictIntervalBound = rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
		return !t.IsLatent && t.Form != dimension.FormInterval && t.Form != dimension.FormNow
	}))
)

func timeArg(a rules.Arg) dimension.Time {
	return a.Value().(dimension.Time)
}

func intArg(a rules.Arg) int {
	switch v := a.Value().(type) {
	case dimension.Integer:
		return int(v.Value)
	case dimension.Ordinal:
		return int(v.Value)
	}
	return 0
}

func monthDay(month rules.Arg, day int) (dimension.Dimension, error) {
	m := timeArg(month)
	return dimension.Time{Form: dimension.FormDate, Month: m.Month, Day: day}, nil
}

func interval(from, to rules.Arg) (dimension.Dimension, error) {
	a, b := timeArg(from), timeArg(to)
	a.IsLatent, b.IsLatent = false, false
	return dimension.Time{Form: dimension.FormInterval, From: &a, To: &b}, nil
}

// ============================================================================
// Rules
// ============================================================================

func timeRules() []rules.Rule {
	var rs []rules.Rule
	rs = append(rs, calendarRules()...)
	rs = append(rs, dateRules()...)
	rs = append(rs, clockRules()...)
	rs = append(rs, relativeRules()...)
	rs = append(rs, intervalRules()...)
	return rs
}

func calendarRules() []rules.Rule {
	return []rules.Rule{
		rule("now", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Time{Form: dimension.FormNow}, nil
		}, rules.Words("now")),

		rule("right now", func(args []rules.Arg) (dimension.Dimension, error) {
			return args[1].Value(), nil
		}, rules.Words("right", "just"), rules.Dim(dimension.KindTime, timeIs(formIs(dimension.FormNow)))),

		rule("today|tomorrow|yesterday", func(args []rules.Arg) (dimension.Dimension, error) {
			return dayShift(relativeDays[lower(args[0])]), nil
		}, rules.Words(words(relativeDays)...)),

		rule("day after tomorrow", func(args []rules.Arg) (dimension.Dimension, error) {
			return dayShift(2), nil
		}, rules.Words("day"), rules.Words("after"), rules.Words("tomorrow")),

		rule("day before yesterday", func(args []rules.Arg) (dimension.Dimension, error) {
			return dayShift(-2), nil
		}, rules.Words("day"), rules.Words("before"), rules.Words("yesterday")),

		rule("named-day", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Time{Form: dimension.FormDayOfWeek, Weekday: weekdays[lower(args[0])], HasWeekday: true}, nil
		}, rules.Words(words(weekdays)...)),

		rule("named-month", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Time{Form: dimension.FormMonth, Month: months[lower(args[0])]}, nil
		}, rules.Words(words(months)...)),

		rule("this|next|last <day-of-week>", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[1])
			t.Direction = directions[lower(args[0])]
			return t, nil
		}, rules.Words(words(directions)...), plainDayOfWeek),

		rule("this|next|last <month>", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[1])
			t.Direction = directions[lower(args[0])]
			return t, nil
		}, rules.Words(words(directions)...), plainMonth),

		rule("cycle", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Cycle{Grain: cycles[lower(args[0])]}, nil
		}, rules.Words(words(cycles)...)),

		rule("this|next|last <cycle>", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Time{
				Form:       dimension.FormCycle,
				ShiftGrain: args[1].Value().(dimension.Cycle).Grain,
				Direction:  directions[lower(args[0])],
			}, nil
		}, rules.Words(words(directions)...), rules.Dim(dimension.KindCycle)),

		rule("on <day>", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[1])
			t.IsLatent = false
			return t, nil
		}, rules.Words("on"), dayLike),
	}
}

func dateRules() []rules.Rule {
	year := func(s string) (int, bool) {
		y, err := atoi(s)
		return y, err == nil && y >= 1000 && y <= 2999
	}

	return []rules.Rule{
		rule("<named-month> <day-of-month>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[0], intArg(args[1]))
		}, plainMonth, dayOfMonth),

		rule("<named-month> <ordinal>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[0], intArg(args[1]))
		}, plainMonth, ordinalDay),

		rule("<day-of-month> <named-month>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[1], intArg(args[0]))
		}, dayOfMonth, plainMonth),

		rule("<ordinal> <named-month>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[1], intArg(args[0]))
		}, ordinalDay, plainMonth),

		rule("<ordinal> of <named-month>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[2], intArg(args[0]))
		}, ordinalDay, rules.Words("of"), plainMonth),

		rule("the <day-of-month> (ordinal)", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Time{Form: dimension.FormDate, Day: intArg(args[1]), IsLatent: true}, nil
		}, rules.Words("the"), ordinalDay),

		rule("the <day-of-month> of <named-month>", func(args []rules.Arg) (dimension.Dimension, error) {
			return monthDay(args[2], timeArg(args[0]).Day)
		}, rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
			return t.Form == dimension.FormDate && t.Month == 0 && t.Year == 0
		})), rules.Words("of"), plainMonth),

		rule("<date> <year>", func(args []rules.Arg) (dimension.Dimension, error) {
			y, ok := year(args[1].Group(1))
			if !ok {
				return nil, errSkip
			}
			t := timeArg(args[0])
			t.Year = y
			return t, nil
		}, rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
			return t.Form == dimension.FormDate && t.Month != 0 && t.Day != 0 && t.Year == 0 && t.Clock == nil
		})), rules.Regex(`,?\s*(\d{4})`)),

		rule("<named-month> <year>", func(args []rules.Arg) (dimension.Dimension, error) {
			y, ok := year(args[1].Text)
			if !ok {
				return nil, errSkip
			}
			return dimension.Time{Form: dimension.FormDate, Year: y, Month: timeArg(args[0]).Month}, nil
		}, plainMonth, rules.Regex(`\d{4}`)),

		rule("in <year>", func(args []rules.Arg) (dimension.Dimension, error) {
			y, ok := year(args[1].Text)
			if !ok {
				return nil, errSkip
			}
			return dimension.Time{Form: dimension.FormDate, Year: y}, nil
		}, rules.Words("in"), rules.Regex(`\d{4}`)),

		rule("yyyy-mm-dd", func(args []rules.Arg) (dimension.Dimension, error) {
			y, _ := atoi(args[0].Group(1))
			m, _ := atoi(args[0].Group(2))
			d, _ := atoi(args[0].Group(3))
			if m < 1 || m > 12 || d < 1 || d > 31 {
				return nil, errSkip
			}
			return dimension.Time{Form: dimension.FormDate, Year: y, Month: time.Month(m), Day: d}, nil
		}, rules.Regex(`(\d{4})-(\d{1,2})-(\d{1,2})`)),

		rule("mm/dd[/yyyy]", func(args []rules.Arg) (dimension.Dimension, error) {
			m, _ := atoi(args[0].Group(1))
			d, _ := atoi(args[0].Group(2))
			if m < 1 || m > 12 || d < 1 || d > 31 {
				return nil, errSkip
			}
			t := dimension.Time{Form: dimension.FormDate, Month: time.Month(m), Day: d}
			if ys := args[0].Group(3); ys != "" {
				y, _ := atoi(ys)
				if len(ys) == 2 {
					y += 2000
				}
				t.Year = y
			}
			return t, nil
		}, rules.Regex(`(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?`)),

		rule("<day-of-week> <date>", func(args []rules.Arg) (dimension.Dimension, error) {
			return withWeekday(args[0], args[len(args)-1])
		}, plainDayOfWeek, rules.Dim(dimension.KindTime, timeIs(undatedWeekday))),

		rule("<day-of-week>, <date>", func(args []rules.Arg) (dimension.Dimension, error) {
			return withWeekday(args[0], args[len(args)-1])
		}, plainDayOfWeek, rules.Regex(`,`), rules.Dim(dimension.KindTime, timeIs(undatedWeekday))),
	}
}

func undatedWeekday(t dimension.Time) bool {
	return t.Form == dimension.FormDate && t.Day != 0 && !t.HasWeekday && t.Clock == nil
}

func withWeekday(day, date rules.Arg) (dimension.Dimension, error) {
	t := timeArg(date)
	t.Weekday = timeArg(day).Weekday
	t.HasWeekday = true
	t.IsLatent = false
	return t, nil
}

func clockRules() []rules.Rule {
	meridiem := func(h int, ap string) (int, bool) {
		if h < 1 || h > 12 {
			return 0, false
		}
		h %= 12
		if strings.HasPrefix(strings.ToLower(ap), "p") {
			h += 12
		}
		return h, true
	}

	return []rules.Rule{
		rule("hh:mm", func(args []rules.Arg) (dimension.Dimension, error) {
			h, _ := atoi(args[0].Group(1))
			m, _ := atoi(args[0].Group(2))
			c := hourClock(h)
			c.Minute, c.Precise = m, true
			return clockTime(c, false), nil
		}, rules.Regex(`([01]?\d|2[0-3]):([0-5]\d)`)),

		rule("hh(:mm) am|pm", func(args []rules.Arg) (dimension.Dimension, error) {
			h, _ := atoi(args[0].Group(1))
			h, ok := meridiem(h, args[0].Group(3))
			if !ok {
				return nil, errSkip
			}
			c := dimension.Clock{Hour: h}
			if mm := args[0].Group(2); mm != "" {
				c.Minute, _ = atoi(mm)
				c.Precise = true
			}
			return clockTime(c, false), nil
		}, rules.Regex(`(\d{1,2})(?::([0-5]\d))?\s?([ap])\.?m\.?`)),

		rule("<hour> am|pm", func(args []rules.Arg) (dimension.Dimension, error) {
			h, ok := meridiem(intArg(args[0]), args[1].Group(1))
			if !ok {
				return nil, errSkip
			}
			return clockTime(dimension.Clock{Hour: h}, false), nil
		}, hour12, rules.Regex(`([ap])\.?m\.?`)),

		rule("noon|midnight", func(args []rules.Arg) (dimension.Dimension, error) {
			if lower(args[0]) == "midnight" {
				return clockTime(dimension.Clock{Hour: 0}, false), nil
			}
			return clockTime(dimension.Clock{Hour: 12}, false), nil
		}, rules.Words("noon", "midday", "midnight")),

		rule("<hour> o'clock", func(args []rules.Arg) (dimension.Dimension, error) {
			return clockTime(hourClock(intArg(args[0])), false), nil
		}, hour12, rules.Words("o'clock", "oclock")),

		rule("at <hour>", func(args []rules.Arg) (dimension.Dimension, error) {
			return clockTime(hourClock(intArg(args[1])), false), nil
		}, rules.Words("at", "@"), rules.Dim(dimension.KindNumber, intBetween(0, 23))),

		rule("at <time-of-day>", func(args []rules.Arg) (dimension.Dimension, error) {
			return args[1].Value(), nil
		}, rules.Words("at", "@"), clock),

		rule("time-of-day (latent)", func(args []rules.Arg) (dimension.Dimension, error) {
			return clockTime(hourClock(intArg(args[0])), true), nil
		}, rules.Dim(dimension.KindNumber, intBetween(0, 23))),

		rule("half|quarter past <hour>", func(args []rules.Arg) (dimension.Dimension, error) {
			c := hourClock(intArg(args[2]))
			c.Minute, c.Precise = 15, true
			if lower(args[0]) == "half" {
				c.Minute = 30
			}
			return clockTime(c, false), nil
		}, rules.Words("half", "quarter"), rules.Words("past", "after"), hour12),

		rule("quarter to <hour>", func(args []rules.Arg) (dimension.Dimension, error) {
			h := intArg(args[2]) - 1
			if h == 0 {
				h = 12
			}
			c := hourClock(h)
			c.Minute, c.Precise = 45, true
			return clockTime(c, false), nil
		}, rules.Words("quarter"), rules.Words("to", "till", "before"), hour12),

		rule("<time-of-day> in the morning|afternoon|evening", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[0])
			c := *t.Clock
			c.Hour %= 12
			if lower(args[3]) != "morning" {
				c.Hour += 12
			}
			c.Ambiguous = false
			return clockTime(c, false), nil
		}, rules.Dim(dimension.KindTime, timeIs(func(t dimension.Time) bool {
			return t.Form == dimension.FormTimeOfDay && t.Clock != nil && t.Clock.Ambiguous
		})), rules.Words("in"), rules.Words("the"), rules.Words("morning", "afternoon", "evening")),

		rule("<day> <time-of-day>", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[0])
			t.IsLatent = false
			return t.WithClock(*timeArg(args[1]).Clock), nil
		}, dayLike, clock),

		rule("<time-of-day> <day>", func(args []rules.Arg) (dimension.Dimension, error) {
			t := timeArg(args[1])
			if t.IsLatent {
				return nil, errSkip
			}
			return t.WithClock(*timeArg(args[0]).Clock), nil
		}, clock, dayLike),
	}
}

func relativeRules() []rules.Rule {
	shift := func(d dimension.Duration, sign int) dimension.Time {
		p := d.Period
		if sign < 0 {
			p = p.Neg()
		}
		return dimension.Time{Form: dimension.FormShift, Shift: p, ShiftGrain: d.Period.FinestGrain(), Precision: d.Precision}
	}

	return []rules.Rule{
		rule("in <duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			return shift(args[1].Value().(dimension.Duration), 1), nil
		}, rules.Words("in", "within"), rules.Dim(dimension.KindDuration)),

		rule("<duration> ago", func(args []rules.Arg) (dimension.Dimension, error) {
			return shift(args[0].Value().(dimension.Duration), -1), nil
		}, rules.Dim(dimension.KindDuration), rules.Words("ago")),

		rule("<duration> hence", func(args []rules.Arg) (dimension.Dimension, error) {
			return shift(args[0].Value().(dimension.Duration), 1), nil
		}, rules.Dim(dimension.KindDuration), rules.Words("hence", "later")),

		rule("<duration> from now", func(args []rules.Arg) (dimension.Dimension, error) {
			return shift(args[0].Value().(dimension.Duration), 1), nil
		}, rules.Dim(dimension.KindDuration), rules.Words("from"), rules.Words("now", "today")),
	}
}

func intervalRules() []rules.Rule {
	return []rules.Rule{
		rule("from <time> to <time>", func(args []rules.Arg) (dimension.Dimension, error) {
			return interval(args[1], args[3])
		}, rules.Words("from"), intervalBound, rules.Words("to", "till", "until", "through", "thru"), intervalBound),

		rule("from <time> - <time>", func(args []rules.Arg) (dimension.Dimension, error) {
			return interval(args[1], args[3])
		}, rules.Words("from"), intervalBound, rules.Regex(`-|–`), intervalBound),

		rule("between <time> and <time>", func(args []rules.Arg) (dimension.Dimension, error) {
			return interval(args[1], args[3])
		}, rules.Words("between"), intervalBound, rules.Words("and"), intervalBound),

		rule("<time> - <time>", func(args []rules.Arg) (dimension.Dimension, error) {
			return interval(args[0], args[2])
		}, strictIntervalBound, rules.Regex(`-|–`), strictIntervalBound),
	}
}
