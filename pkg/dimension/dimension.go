// Package dimension defines the intermediate values produced by grammar rules.
// A Dimension is a tagged union: every concrete type reports its Kind, and the
// resolver turns it into a typed output.
package dimension

import (
	"fmt"

	"github.com/kittclouds/ontokit/pkg/moment"
)

// Kind tags a dimension value.
type Kind int

const (
	KindNumber Kind = iota
	KindOrdinal
	KindTemperature
	KindDuration
	KindTime
	KindAmountOfMoney
	KindPercentage

	// Grammar-internal helpers, never surfaced as outputs.
	KindUnitOfDuration
	KindCycle
	KindMoneyUnit
)

var kindNames = [...]string{
	KindNumber:         "number",
	KindOrdinal:        "ordinal",
	KindTemperature:    "temperature",
	KindDuration:       "duration",
	KindTime:           "time",
	KindAmountOfMoney:  "amount-of-money",
	KindPercentage:     "percentage",
	KindUnitOfDuration: "unit-of-duration",
	KindCycle:          "cycle",
	KindMoneyUnit:      "money-unit",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dimension is a value matched by a grammar rule.
type Dimension interface {
	Kind() Kind
	// Latent marks an implicit interpretation kept only as a fallback,
	// e.g. a bare number read as a temperature.
	Latent() bool
}

// Precision qualifies a quantity as exact or approximate ("about 3 hours").
type Precision int

const (
	Exact Precision = iota
	Approximate
)

func (p Precision) String() string {
	if p == Approximate {
		return "approximate"
	}
	return "exact"
}

// Integer is a whole number. Grain is the power of ten the value was built
// from ("twenty" has grain 1, "five hundred" grain 2), zero when unknown or
// no longer composable.
type Integer struct {
	Value        int64
	Grain        int
	Multipliable bool // a bare power word: hundred, thousand, ...
	Numeric      bool // written with digits
}

func (Integer) Kind() Kind { return KindNumber }
func (Integer) Latent() bool { return false }

// Float is a decimal number.
type Float struct {
	Value float64
}

func (Float) Kind() Kind { return KindNumber }
func (Float) Latent() bool { return false }

// Ordinal is a rank: first, 2nd, twenty-third.
type Ordinal struct {
	Value int64
}

func (Ordinal) Kind() Kind { return KindOrdinal }
func (Ordinal) Latent() bool { return false }

// Temperature is a value with an optional unit (degree, celsius, fahrenheit, kelvin).
type Temperature struct {
	Value    float64
	Unit     string
	IsLatent bool
}

func (Temperature) Kind() Kind { return KindTemperature }
func (t Temperature) Latent() bool { return t.IsLatent }

// Duration is an amount of time, independent of any reference instant.
type Duration struct {
	Period    moment.Period
	Precision Precision
}

func (Duration) Kind() Kind { return KindDuration }
func (Duration) Latent() bool { return false }

// AmountOfMoney is a value with an optional ISO currency unit.
type AmountOfMoney struct {
	Value     float64
	Unit      string
	Precision Precision
}

func (AmountOfMoney) Kind() Kind { return KindAmountOfMoney }
func (AmountOfMoney) Latent() bool { return false }

// Percentage is a value in percent.
type Percentage struct {
	Value float64
}

func (Percentage) Kind() Kind { return KindPercentage }
func (Percentage) Latent() bool { return false }

// UnitOfDuration is a duration unit word: "days", "hour".
type UnitOfDuration struct {
	Grain moment.Grain
}

func (UnitOfDuration) Kind() Kind { return KindUnitOfDuration }
func (UnitOfDuration) Latent() bool { return false }

// Cycle is a calendar cycle word used with this/next/last.
type Cycle struct {
	Grain moment.Grain
}

func (Cycle) Kind() Kind { return KindCycle }
func (Cycle) Latent() bool { return false }

// MoneyUnit is a currency word or symbol.
type MoneyUnit struct {
	Unit string
}

func (MoneyUnit) Kind() Kind { return KindMoneyUnit }
func (MoneyUnit) Latent() bool { return false }

// NumberValue returns the numeric value of an Integer or Float.
func NumberValue(d Dimension) (float64, bool) {
	switch v := d.(type) {
	case Integer:
		return float64(v.Value), true
	case Float:
		return v.Value, true
	default:
		return 0, false
	}
}
