package en

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// errSkip rejects a match the pattern alone could not rule out.
var errSkip = errors.New("en: rule does not apply")

type produceFunc func(args []rules.Arg) (dimension.Dimension, error)

func rule(name string, produce produceFunc, items ...rules.Item) rules.Rule {
	return rules.Rule{Name: name, Pattern: items, Produce: produce}
}

func lower(a rules.Arg) string {
	return strings.ToLower(a.Text)
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// words returns the keys of a lookup table, for use with rules.Words.
func words[V any](table map[string]V) []string {
	out := make([]string, 0, len(table))
	for w := range table {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// ============================================================================
// Predicates
// ============================================================================

func integer(pred func(dimension.Integer) bool) rules.Pred {
	return func(d dimension.Dimension) bool {
		n, ok := d.(dimension.Integer)
		return ok && (pred == nil || pred(n))
	}
}

func intBetween(lo, hi int64) rules.Pred {
	return integer(func(n dimension.Integer) bool { return n.Value >= lo && n.Value <= hi && !n.Multipliable })
}

func ordinalBetween(lo, hi int64) rules.Pred {
	return func(d dimension.Dimension) bool {
		o, ok := d.(dimension.Ordinal)
		return ok && o.Value >= lo && o.Value <= hi
	}
}

func notLatent(d dimension.Dimension) bool { return !d.Latent() }

func timeIs(pred func(dimension.Time) bool) rules.Pred {
	return func(d dimension.Dimension) bool {
		t, ok := d.(dimension.Time)
		return ok && pred(t)
	}
}

func formIs(forms ...dimension.TimeForm) func(dimension.Time) bool {
	return func(t dimension.Time) bool {
		for _, f := range forms {
			if t.Form == f {
				return true
			}
		}
		return false
	}
}

func durationIs(pred func(dimension.Duration) bool) rules.Pred {
	return func(d dimension.Dimension) bool {
		v, ok := d.(dimension.Duration)
		return ok && (pred == nil || pred(v))
	}
}

func unitGrain(a rules.Arg) moment.Grain {
	return a.Value().(dimension.UnitOfDuration).Grain
}
