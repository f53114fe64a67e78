// Package resolver turns dimension values into typed outputs, grounding
// relative temporal expressions against a Context.
package resolver

import (
	"errors"
	"fmt"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/output"
)

var (
	// ErrCoercion matches every *CoercionError.
	ErrCoercion = errors.New("resolver: coercion failed")
	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("resolver: resolution failed")
)

// CoercionError reports a value that does not belong to the requested kind.
type CoercionError struct {
	Want output.Kind
	Have dimension.Kind
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("resolver: cannot coerce %s into %s", e.Have, e.Want)
}

func (e *CoercionError) Is(target error) bool { return target == ErrCoercion }

// ResolutionError reports a value that is well typed but cannot be grounded.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return "resolver: " + e.Reason
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

func resolutionErr(format string, args ...any) error {
	return &ResolutionError{Reason: fmt.Sprintf(format, args...)}
}

// Resolve converts value into an output of the given kind.
func Resolve(kind output.Kind, value dimension.Dimension, ctx Context) (output.Output, error) {
	if value == nil {
		return nil, resolutionErr("no value")
	}
	if k, ok := output.KindOf(value); !ok || k != kind {
		return nil, &CoercionError{Want: kind, Have: value.Kind()}
	}

	switch v := value.(type) {
	case dimension.Integer:
		return output.IntegerOutput(v.Value), nil
	case dimension.Float:
		return output.FloatOutput(v.Value), nil
	case dimension.Ordinal:
		return output.OrdinalOutput(v.Value), nil
	case dimension.Percentage:
		return output.PercentageOutput(v.Value), nil
	case dimension.Temperature:
		return output.TemperatureOutput{Value: v.Value, Unit: v.Unit}, nil
	case dimension.AmountOfMoney:
		return output.AmountOfMoneyOutput{Value: v.Value, Unit: v.Unit, Precision: v.Precision}, nil
	case dimension.Duration:
		if v.Period.IsZero() {
			return nil, resolutionErr("empty duration")
		}
		return output.DurationOutput{Period: v.Period, Precision: v.Precision, Seconds: v.Period.Seconds()}, nil
	case dimension.Time:
		return resolveTime(v, ctx)
	default:
		return nil, &CoercionError{Want: kind, Have: value.Kind()}
	}
}
