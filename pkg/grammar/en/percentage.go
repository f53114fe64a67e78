package en

import (
	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

func percentageRules() []rules.Rule {
	number := rules.Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
		n, isInt := d.(dimension.Integer)
		return !isInt || !n.Multipliable
	})
	produce := func(args []rules.Arg) (dimension.Dimension, error) {
		v, _ := dimension.NumberValue(args[0].Value())
		return dimension.Percentage{Value: v}, nil
	}

	return []rules.Rule{
		rule("<number> %", produce, number, rules.Words("%", "percent", "percents", "pct")),
		rule("<number> per cent", produce, number, rules.Words("per"), rules.Words("cent")),
	}
}
