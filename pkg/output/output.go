package output

import (
	"errors"
	"fmt"
	"time"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
)

// ErrWrongOutput is returned by As when the output is not of the requested type.
var ErrWrongOutput = errors.New("output: wrong output type")

// Output is a resolved, typed value. Every concrete type belongs to exactly one Kind.
type Output interface {
	Kind() Kind
}

type IntegerOutput int64

type FloatOutput float64

type OrdinalOutput int64

type PercentageOutput float64

// TemperatureOutput has Unit "degree" when no scale was given and an empty
// Unit for a bare number.
type TemperatureOutput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

type AmountOfMoneyOutput struct {
	Value     float64             `json:"value"`
	Unit      string              `json:"unit,omitempty"`
	Precision dimension.Precision `json:"precision"`
}

type DurationOutput struct {
	Period    moment.Period       `json:"period"`
	Precision dimension.Precision `json:"precision"`
	Seconds   int64               `json:"seconds"`
}

// TimeOutput is an instant and the grain it was expressed at.
type TimeOutput struct {
	Moment    time.Time           `json:"moment"`
	Grain     moment.Grain        `json:"grain"`
	Precision dimension.Precision `json:"precision"`
}

// TimeIntervalOutput is a half-open interval [From, To). To is the end of
// the grain unit the end was expressed in, so "from 3pm to 5pm" ends at 18:00.
type TimeIntervalOutput struct {
	From  time.Time    `json:"from"`
	To    time.Time    `json:"to"`
	Grain moment.Grain `json:"grain"`
}

func (IntegerOutput) Kind() Kind { return Number }
func (FloatOutput) Kind() Kind { return Number }
func (OrdinalOutput) Kind() Kind { return Ordinal }
func (PercentageOutput) Kind() Kind { return Percentage }
func (TemperatureOutput) Kind() Kind { return Temperature }
func (AmountOfMoneyOutput) Kind() Kind { return AmountOfMoney }
func (DurationOutput) Kind() Kind { return Duration }
func (TimeOutput) Kind() Kind { return Time }
func (TimeIntervalOutput) Kind() Kind { return Time }

// As coerces o into the concrete output type T.
//
//	n, err := output.As[output.IntegerOutput](m.Value)
func As[T Output](o Output) (T, error) {
	v, ok := o.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: have %T, want %T", ErrWrongOutput, o, zero)
	}
	return v, nil
}
