package en

import (
	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

const unitCent = "cent"

var currencies = map[string]string{
	"$": "USD", "us$": "USD", "usd": "USD", "dollar": "USD", "dollars": "USD", "buck": "USD", "bucks": "USD",
	"€": "EUR", "eur": "EUR", "euro": "EUR", "euros": "EUR",
	"£": "GBP", "gbp": "GBP", "pound": "GBP", "pounds": "GBP", "quid": "GBP",
	"¥": "JPY", "jpy": "JPY", "yen": "JPY",
	"cent": unitCent, "cents": unitCent, "penny": unitCent, "pennies": unitCent,
}

// prefix symbols and codes; "dollars 5" is not English
var prefixCurrencies = []string{"$", "us$", "usd", "€", "eur", "£", "gbp", "¥", "jpy"}

// amount pairs a number with a currency unit node.
func amount(n rules.Arg, unit rules.Arg) (dimension.Dimension, error) {
	u, ok := unit.Value().(dimension.MoneyUnit)
	if !ok {
		return nil, errSkip
	}
	return amountUnit(n, u.Unit)
}

func amountUnit(n rules.Arg, u string) (dimension.Dimension, error) {
	v, ok := dimension.NumberValue(n.Value())
	if !ok || u == "" {
		return nil, errSkip
	}
	if u == unitCent {
		return dimension.AmountOfMoney{Value: v / 100, Unit: "USD"}, nil
	}
	return dimension.AmountOfMoney{Value: v, Unit: u}, nil
}

func moneyRules() []rules.Rule {
	number := rules.Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
		n, isInt := d.(dimension.Integer)
		return !isInt || !n.Multipliable || n.Value >= 100
	})

	return []rules.Rule{
		rule("currency", func(args []rules.Arg) (dimension.Dimension, error) {
			return dimension.MoneyUnit{Unit: currencies[lower(args[0])]}, nil
		}, rules.Words(words(currencies)...)),

		rule("<amount> <unit>", func(args []rules.Arg) (dimension.Dimension, error) {
			return amount(args[0], args[1])
		}, number, rules.Dim(dimension.KindMoneyUnit)),

		rule("<unit> <amount>", func(args []rules.Arg) (dimension.Dimension, error) {
			return amountUnit(args[1], currencies[lower(args[0])])
		}, rules.Words(prefixCurrencies...), number),

		rule("<amount> and <cents>", func(args []rules.Arg) (dimension.Dimension, error) {
			a := args[0].Value().(dimension.AmountOfMoney)
			c := args[2].Value().(dimension.AmountOfMoney)
			if a.Unit == "" || c.Value >= 1 || a.Value != float64(int64(a.Value)) {
				return nil, errSkip
			}
			return dimension.AmountOfMoney{Value: a.Value + c.Value, Unit: a.Unit, Precision: a.Precision}, nil
		},
			rules.Dim(dimension.KindAmountOfMoney),
			rules.Words("and"),
			rules.Dim(dimension.KindAmountOfMoney, func(d dimension.Dimension) bool {
				return d.(dimension.AmountOfMoney).Unit == "USD"
			}),
		),

		rule("about <amount-of-money>", func(args []rules.Arg) (dimension.Dimension, error) {
			m := args[1].Value().(dimension.AmountOfMoney)
			if m.Precision == dimension.Approximate {
				return nil, errSkip
			}
			m.Precision = dimension.Approximate
			return m, nil
		}, rules.Words(approximately...), rules.Dim(dimension.KindAmountOfMoney)),
	}
}
