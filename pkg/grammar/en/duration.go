package en

import (
	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/rules"
)

var durationUnits = map[string]moment.Grain{
	"second": moment.GrainSecond, "seconds": moment.GrainSecond, "sec": moment.GrainSecond, "secs": moment.GrainSecond,
	"minute": moment.GrainMinute, "minutes": moment.GrainMinute, "min": moment.GrainMinute, "mins": moment.GrainMinute,
	"hour": moment.GrainHour, "hours": moment.GrainHour, "hr": moment.GrainHour, "hrs": moment.GrainHour,
	"day": moment.GrainDay, "days": moment.GrainDay,
	"week": moment.GrainWeek, "weeks": moment.GrainWeek,
	"month": moment.GrainMonth, "months": moment.GrainMonth,
	"quarter": moment.GrainQuarter, "quarters": moment.GrainQuarter,
	"year": moment.GrainYear, "years": moment.GrainYear, "yr": moment.GrainYear, "yrs": moment.GrainYear,
}

var approximately = []string{"about", "around", "approximately", "roughly", "approx"}

// half returns half of one unit of g, expressed in finer grains.
func half(g moment.Grain) (moment.Period, bool) {
	switch g {
	case moment.GrainMinute:
		return moment.PeriodOf(moment.GrainSecond, 30), true
	case moment.GrainHour:
		return moment.PeriodOf(moment.GrainMinute, 30), true
	case moment.GrainDay:
		return moment.PeriodOf(moment.GrainHour, 12), true
	case moment.GrainWeek:
		return moment.PeriodOf(moment.GrainHour, 84), true
	case moment.GrainMonth:
		return moment.PeriodOf(moment.GrainDay, 15), true
	case moment.GrainYear:
		return moment.PeriodOf(moment.GrainMonth, 6), true
	}
	return moment.Period{}, false
}

func durationRules() []rules.Rule {
	unit := rules.Dim(dimension.KindUnitOfDuration)

	return []rules.Rule{
		rule("unit of duration", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.UnitOfDuration{Grain: durationUnits[lower(args[0])]}, nil
		}, rules.Words(words(durationUnits)...)),

		rule("<integer> <unit-of-duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			n := args[0].Value().(dimension.Integer)
			return dimension.Duration{Period: moment.PeriodOf(unitGrain(args[1]), int(n.Value))}, nil
		}, rules.Dim(dimension.KindNumber, intBetween(1, 1<<31-1)), unit),

		rule("a <unit-of-duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Duration{Period: moment.PeriodOf(unitGrain(args[1]), 1)}, nil
		}, rules.Words("a", "an"), unit),

		rule("half an hour", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Duration{Period: moment.PeriodOf(moment.GrainMinute, 30)}, nil
		}, rules.Words("half"), rules.Words("an", "a"), rules.Words("hour")),

		rule("<duration> and a half", func(args []rules.Arg) (dimension.Dimension, error) {
			d := args[0].Value().(dimension.Duration)
			g := d.Period.FinestGrain()
			h, ok := half(g)
			if !ok || d.Period.CoarsestGrain() != g {
				return nil, errSkip
			}
			return dimension.Duration{Period: d.Period.Plus(h), Precision: d.Precision}, nil
		}, rules.Dim(dimension.KindDuration), rules.Words("and"), rules.Words("a"), rules.Words("half")),

		rule("composite <duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			return composite(args[0], args[len(args)-1])
		}, rules.Dim(dimension.KindDuration), rules.Dim(dimension.KindDuration)),

		rule("composite <duration> (and)", func(args []rules.Arg) (dimension.Dimension, error) {
			return composite(args[0], args[len(args)-1])
		}, rules.Dim(dimension.KindDuration), rules.Words("and"), rules.Dim(dimension.KindDuration)),

		rule("about <duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			d := args[1].Value().(dimension.Duration)
			if d.Precision == dimension.Approximate {
				return nil, errSkip
			}
			d.Precision = dimension.Approximate
			return d, nil
		}, rules.Words(approximately...), rules.Dim(dimension.KindDuration)),

		rule("exactly <duration>", func(args []rules.Arg) (dimension.Dimension, error) {
			return args[1].Value(), nil
		}, rules.Words("exactly", "precisely"), rules.Dim(dimension.KindDuration, durationIs(func(d dimension.Duration) bool {
			return d.Precision == dimension.Exact
		}))),
	}
}

// composite joins "2 hours" and "30 minutes"; the left side must be strictly coarser.
func composite(left, right rules.Arg) (dimension.Dimension, error) {
	a := left.Value().(dimension.Duration)
	b := right.Value().(dimension.Duration)
	if a.Period.FinestGrain() <= b.Period.CoarsestGrain() {
		return nil, errSkip
	}
	p := dimension.Exact
	if a.Precision == dimension.Approximate || b.Precision == dimension.Approximate {
		p = dimension.Approximate
	}
	return dimension.Duration{Period: a.Period.Plus(b.Period), Precision: p}, nil
}
