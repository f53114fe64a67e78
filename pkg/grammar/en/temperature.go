package en

import (
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

const (
	unitDegree     = "degree"
	unitCelsius    = "celsius"
	unitFahrenheit = "fahrenheit"
	unitKelvin     = "kelvin"
)

var temperatureScales = map[string]string{
	"celsius": unitCelsius, "centigrade": unitCelsius, "c": unitCelsius,
	"fahrenheit": unitFahrenheit, "f": unitFahrenheit,
	"kelvin": unitKelvin, "kelvins": unitKelvin, "k": unitKelvin,
}

func temperatureRules() []rules.Rule {
	// a bare or "degrees" temperature can still take a scale
	unscaled := rules.Dim(dimension.KindTemperature, func(d dimension.Dimension) bool {
		t := d.(dimension.Temperature)
		return t.Unit == "" || t.Unit == unitDegree
	})

	return []rules.Rule{
		rule("number as temp", func(args []rules.Arg) (dimension.Dimension, error) {
			v, _ := dimension.NumberValue(args[0].Value())
			return dimension.Temperature{Value: v, IsLatent: true}, nil
		}, rules.Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
			_, ok := dimension.NumberValue(d)
			if n, isInt := d.(dimension.Integer); isInt && n.Multipliable {
				return false
			}
			return ok
		})),

		rule("<latent temp> degrees", func(args []rules.Arg) (dimension.Dimension, error) {
			t := args[0].Value().(dimension.Temperature)
			return dimension.Temperature{Value: t.Value, Unit: unitDegree}, nil
		}, rules.Dim(dimension.KindTemperature, func(d dimension.Dimension) bool { return d.Latent() }),
			rules.Words("degree", "degrees", "deg")),

		rule("<latent temp> °", func(args []rules.Arg) (dimension.Dimension, error) {
			t := args[0].Value().(dimension.Temperature)
			unit := unitDegree
			if scale, ok := temperatureScales[strings.ToLower(args[1].Group(1))]; ok {
				unit = scale
			}
			return dimension.Temperature{Value: t.Value, Unit: unit}, nil
		}, rules.Dim(dimension.KindTemperature, func(d dimension.Dimension) bool { return d.Latent() }),
			rules.Regex(`°\s?([cfk])?`)),

		rule("<temp> celsius|fahrenheit|kelvin", func(args []rules.Arg) (dimension.Dimension, error) {
			t := args[0].Value().(dimension.Temperature)
			return dimension.Temperature{Value: t.Value, Unit: temperatureScales[lower(args[1])]}, nil
		}, unscaled, rules.Words(words(temperatureScales)...)),

		rule("<temp> below zero", func(args []rules.Arg) (dimension.Dimension, error) {
			t := args[0].Value().(dimension.Temperature)
			if t.Value <= 0 {
				return nil, errSkip
			}
			unit := t.Unit
			if unit == "" {
				unit = unitDegree
			}
			return dimension.Temperature{Value: -t.Value, Unit: unit}, nil
		}, rules.Dim(dimension.KindTemperature), rules.Words("below"), rules.Words("zero")),
	}
}
