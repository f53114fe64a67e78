package model

import (
	"fmt"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// Example is a training sentence and a check accepting the values that
// correctly interpret the whole of it.
type Example struct {
	Text  string
	Check func(dimension.Dimension) bool
}

// TrainStats summarises a training run.
type TrainStats struct {
	Examples  int
	Unmatched []string // examples no full-span node satisfied
	Positive  int
	Negative  int
}

// Train builds a model from examples. Every node spanning a whole example
// and passing its check marks its tree as correct; every other node of the
// forest is a negative sample.
func Train(rs *rules.RuleSet, examples []Example, fx FeatureExtractor) (*Model, TrainStats, error) {
	m := New()
	stats := TrainStats{Examples: len(examples)}

	for _, ex := range examples {
		nodes, err := rs.Apply(ex.Text)
		if err != nil {
			return nil, stats, fmt.Errorf("train %q: %w", ex.Text, err)
		}
		whole := rules.Trimmed(ex.Text)

		positive := make(map[int]bool)
		for _, n := range nodes {
			if n.Range != whole || ex.Check == nil || !ex.Check(n.Value) {
				continue
			}
			n.Walk(func(c *rules.Node) { positive[c.ID] = true })
		}
		if len(positive) == 0 {
			stats.Unmatched = append(stats.Unmatched, ex.Text)
		}

		for _, n := range nodes {
			ok := positive[n.ID]
			m.classifier(n.Rule).Observe(fx.Features(n), ok)
			if ok {
				stats.Positive++
			} else {
				stats.Negative++
			}
		}
	}
	return m, stats, nil
}
