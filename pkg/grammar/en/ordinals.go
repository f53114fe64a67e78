package en

import (
	"strconv"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

var ordinalWords = map[string]int64{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14, "fifteenth": 15,
	"sixteenth": 16, "seventeenth": 17, "eighteenth": 18, "nineteenth": 19,
	"twentieth": 20, "thirtieth": 30, "fortieth": 40, "fiftieth": 50,
	"sixtieth": 60, "seventieth": 70, "eightieth": 80, "ninetieth": 90,
}

func ordinalRules() []rules.Rule {
	tensWord := rules.Dim(dimension.KindNumber, integer(func(n dimension.Integer) bool { return n.Grain == 1 && !n.Numeric }))
	unitOrdinal := rules.Dim(dimension.KindOrdinal, ordinalBetween(1, 9))

	compose := func(a, b rules.Arg) (dimension.Dimension, error) {
		return dimension.Ordinal{Value: a.Value().(dimension.Integer).Value + b.Value().(dimension.Ordinal).Value}, nil
	}

	return []rules.Rule{
		rule("ordinals (first..ninetieth)", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.Ordinal{Value: ordinalWords[lower(args[0])]}, nil
		}, rules.Words(words(ordinalWords)...)),

		rule("ordinal 21..99 (hyphen)", func(args []rules.Arg) (dimension.Dimension, error) {
			return compose(args[0], args[2])
		}, tensWord, rules.Regex(`-`), unitOrdinal),

		rule("ordinal 21..99", func(args []rules.Arg) (dimension.Dimension, error) {
			return compose(args[0], args[1])
		}, tensWord, unitOrdinal),

		rule("ordinal (digits)", func(args []rules.Arg) (dimension.Dimension, error) {
			v, err := strconv.ParseInt(args[0].Group(1), 10, 64)
			if err != nil {
				return nil, err
			}
			return dimension.Ordinal{Value: v}, nil
		}, rules.Regex(`(\d{1,9})(?:st|nd|rd|th)`)),
	}
}
