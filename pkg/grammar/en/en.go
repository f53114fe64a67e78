// Package en is the English grammar: rules for numbers, ordinals,
// temperatures, durations, amounts of money, percentages and times, and an
// example corpus to train the scorer on.
package en

import (
	"github.com/kittclouds/ontokit/pkg/rules"
)

// Rules returns every English rule in declaration order.
func Rules() []rules.Rule {
	var rs []rules.Rule
	rs = append(rs, numberRules()...)
	rs = append(rs, ordinalRules()...)
	rs = append(rs, temperatureRules()...)
	rs = append(rs, durationRules()...)
	rs = append(rs, moneyRules()...)
	rs = append(rs, percentageRules()...)
	rs = append(rs, timeRules()...)
	return rs
}

// RuleSet compiles the English rules.
func RuleSet(opts ...rules.Option) (*rules.RuleSet, error) {
	return rules.NewRuleSet(Rules(), opts...)
}
