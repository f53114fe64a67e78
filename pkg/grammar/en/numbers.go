package en

import (
	"math"
	"strconv"
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

var smallNumbers = map[string]int64{
	"zero": 0, "nought": 0,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fourty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// powers of ten by exponent
var powers = map[string]int{
	"hundred": 2, "hundreds": 2,
	"thousand": 3, "thousands": 3,
	"million": 6, "millions": 6,
	"billion": 9, "billions": 9,
}

func pow10(n int) int64 {
	return int64(math.Pow10(n))
}

func numberRules() []rules.Rule {
	return []rules.Rule{
		rule("integer (0..19)", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Integer{Value: smallNumbers[lower(args[0])]}, nil
		}, rules.Words(words(smallNumbers)...)),

		rule("integer (20..90)", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Integer{Value: tens[lower(args[0])], Grain: 1}, nil
		}, rules.Words(words(tens)...)),

		rule("integer (powers of ten)", func(args []rules.Arg) (dimension.Dimension, error) {
			p := powers[lower(args[0])]
			return dimension.Integer{Value: pow10(p), Grain: p, Multipliable: true}, nil
		}, rules.Words(words(powers)...)),

		rule("integer (dozen)", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Integer{Value: 12, Multipliable: true}, nil
		}, rules.Words("dozen", "dozens")),

		rule("integer a <power>", func(args []rules.Arg) (dimension.Dimension, error) {
			return args[1].Value(), nil
		}, rules.Words("a"), rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return n.Multipliable }))),

		rule("integer 21..99 (hyphen)", func(args []rules.Arg) (dimension.Dimension, error) {
			a := args[0].Value().(dimension.Integer)
			b := args[2].Value().(dimension.Integer)
			return dimension.Integer{Value: a.Value + b.Value}, nil
		},
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return n.Grain == 1 && !n.Numeric })),
			rules.Regex(`-`),
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return n.Value >= 1 && n.Value <= 9 && !n.Numeric })),
		),

		rule("integer sum", func(args []rules.Arg) (dimension.Dimension, error) {
			return sum(args[0], args[1])
		},
			rules.Dim(dimension.KindNumber, integer(composableLeft)),
			rules.Dim(dimension.KindNumber, integer(composableRight)),
		),

		rule("integer sum (and)", func(args []rules.Arg) (dimension.Dimension, error) {
			return sum(args[0], args[2])
		},
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return composableLeft(n) && n.Grain >= 2 })),
			rules.Words("and"),
			rules.Dim(dimension.KindNumber, integer(composableRight)),
		),

		rule("integer multiply", func(args []rules.Arg) (dimension.Dimension, error) {
			a := args[0].Value().(dimension.Integer)
			b := args[1].Value().(dimension.Integer)
			if a.Value >= b.Value {
				return nil, errSkip
			}
			return dimension.Integer{Value: a.Value * b.Value, Grain: b.Grain, Numeric: a.Numeric}, nil
		},
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool {
				return n.Value >= 1 && n.Value <= 999 && !n.Multipliable
			})),
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return n.Multipliable })),
		),

		rule("integer (numeric)", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseInt(args[0].Text, 10, 64)
			if err != nil {
				return nil, err
			}
			return dimension.Integer{Value: v, Numeric: true}, nil
		}, rules.Regex(`\d{1,18}`)),

		rule("integer with thousands separator", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseInt(strings.ReplaceAll(args[0].Text, ",", ""), 10, 64)
			if err != nil {
				return nil, err
			}
			return dimension.Integer{Value: v, Numeric: true}, nil
		}, rules.Regex(`\d{1,3}(?:,\d{3})+`)),

		rule("decimal number", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseFloat(args[0].Text, 64)
			if err != nil {
				return nil, err
			}
			return dimension.Float{Value: v}, nil
		}, rules.Regex(`\d*\.\d+`)),

		rule("decimal with thousands separator", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(args[0].Text, ",", ""), 64)
			if err != nil {
				return nil, err
			}
			return dimension.Float{Value: v}, nil
		}, rules.Regex(`\d{1,3}(?:,\d{3})+\.\d+`)),

		rule("number point digits", func(args []rules.Arg) (dimension.Dimension, error) {
			a := args[0].Value().(dimension.Integer)
			v, err := strconv.ParseFloat(strconv.FormatInt(a.Value, 10)+"."+args[2].Text, 64)
			if err != nil {
				return nil, err
			}
			return dimension.Float{Value: v}, nil
		},
			rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return !n.Multipliable && n.Value >= 0 })),
			rules.Words("point", "dot"),
			rules.Regex(`\d+`),
		),

		rule("numbers suffixes (K, M, G)", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseFloat(args[0].Group(1), 64)
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(args[0].Group(2)) {
			case "k":
				v *= 1e3
			case "m":
				v *= 1e6
			case "g":
				v *= 1e9
			}
			if v == math.Trunc(v) {
				return dimension.Integer{Value: int64(v), Numeric: true}, nil
			}
			return dimension.Float{Value: v}, nil
		}, rules.Regex(`(\d*\.?\d+)([kmg])`)),

		rule("negative numbers", func(args []rules.Arg) (dimension.Dimension, error) {
			switch v := args[1].Value().(type) {
			case dimension.Integer:
				return dimension.Integer{Value: -v.Value, Numeric: v.Numeric}, nil
			case dimension.Float:
				return dimension.Float{Value: -v.Value}, nil
			}
			return nil, errSkip
		},
			rules.Words("minus", "negative"),
			rules.Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
				v, ok := dimension.NumberValue(d)
				return ok && v > 0
			}),
		),
	}
}

// composableLeft accepts "twenty", "five hundred", "two thousand".
func composableLeft(n dimension.Integer) bool {
	return n.Grain >= 1 && !n.Multipliable && !n.Numeric
}

func composableRight(n dimension.Integer) bool {
	return n.Value > 0 && !n.Multipliable && !n.Numeric
}

func sum(left, right rules.Arg) (dimension.Dimension, error) {
	a := left.Value().(dimension.Integer)
	b := right.Value().(dimension.Integer)
	if b.Value >= pow10(a.Grain) {
		return nil, errSkip
	}
	return dimension.Integer{Value: a.Value + b.Value}, nil
}
