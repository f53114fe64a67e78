// Package output defines the typed values returned to callers and the closed
// set of output kinds they belong to.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
)

// Kind is a semantic category a candidate can resolve to.
type Kind int

const (
	Number Kind = iota
	Ordinal
	Duration
	Time
	AmountOfMoney
	Temperature
	Percentage
)

var kindNames = [...]string{
	Number:        "Number",
	Ordinal:       "Ordinal",
	Duration:      "Duration",
	Time:          "Time",
	AmountOfMoney: "AmountOfMoney",
	Temperature:   "Temperature",
	Percentage:    "Percentage",
}

var kindSeparators = strings.NewReplacer("-", "", "_", "")

// All returns every kind in the default priority order. Kinds that embed
// numbers come before Number so a date is not split into its digits.
func All() []Kind {
	return []Kind{Time, Duration, AmountOfMoney, Temperature, Percentage, Ordinal, Number}
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name, case-insensitive and ignoring dashes and
// underscores ("amount-of-money"). "datetime" and "temporal" are accepted
// for Time, "money" for AmountOfMoney.
func ParseKind(s string) (Kind, error) {
	name := kindSeparators.Replace(strings.ToLower(strings.TrimSpace(s)))
	switch name {
	case "datetime", "temporal":
		return Time, nil
	case "money":
		return AmountOfMoney, nil
	}
	for k, n := range kindNames {
		if strings.ToLower(n) == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("output: unknown kind %q", s)
}

// ParseKinds parses a comma separated list, keeping order and dropping duplicates.
func ParseKinds(s string) ([]Kind, error) {
	var kinds []Kind
	seen := make(map[Kind]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// KindOf maps a dimension to the output kind it resolves to. Helper
// dimensions map to no kind.
func KindOf(d dimension.Dimension) (Kind, bool) {
	if d == nil {
		return 0, false
	}
	switch d.Kind() {
	case dimension.KindNumber:
		return Number, true
	case dimension.KindOrdinal:
		return Ordinal, true
	case dimension.KindDuration:
		return Duration, true
	case dimension.KindTime:
		return Time, true
	case dimension.KindAmountOfMoney:
		return AmountOfMoney, true
	case dimension.KindTemperature:
		return Temperature, true
	case dimension.KindPercentage:
		return Percentage, true
	default:
		return 0, false
	}
}
