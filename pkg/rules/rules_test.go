package rules

import (
	"errors"
	"strconv"
	"testing"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integer(v int64) dimension.Dimension { return dimension.Integer{Value: v} }

func toyRules() []Rule {
	return []Rule{
		{
			Name:    "integer (numeric)",
			Pattern: []Item{Regex(`\d+`)},
			Produce: func(args []Arg) (dimension.Dimension, error) {
				v, err := strconv.ParseInt(args[0].Text, 10, 64)
				if err != nil {
					return nil, err
				}
				return integer(v), nil
			},
		},
		{
			Name:    "integer (tens)",
			Pattern: []Item{Words("twenty", "thirty")},
			Produce: func(args []Arg) (dimension.Dimension, error) {
				if args[0].Text == "twenty" || args[0].Text == "Twenty" {
					return dimension.Integer{Value: 20, Grain: 1}, nil
				}
				return dimension.Integer{Value: 30, Grain: 1}, nil
			},
		},
		{
			Name:    "integer (units)",
			Pattern: []Item{Words("one", "two")},
			Produce: func(args []Arg) (dimension.Dimension, error) {
				if args[0].Text == "one" {
					return integer(1), nil
				}
				return integer(2), nil
			},
		},
		{
			Name: "integer (tens-units)",
			Pattern: []Item{
				Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
					return d.(dimension.Integer).Grain == 1
				}),
				Regex(`-`),
				Dim(dimension.KindNumber, func(d dimension.Dimension) bool {
					v := d.(dimension.Integer).Value
					return v > 0 && v < 10
				}),
			},
			Produce: func(args []Arg) (dimension.Dimension, error) {
				a := args[0].Value().(dimension.Integer)
				b := args[2].Value().(dimension.Integer)
				return integer(a.Value + b.Value), nil
			},
		},
		{
			Name:    "percent",
			Pattern: []Item{Dim(dimension.KindNumber), Words("percent", "%")},
			Produce: func(args []Arg) (dimension.Dimension, error) {
				v, _ := dimension.NumberValue(args[0].Value())
				return dimension.Percentage{Value: v}, nil
			},
		},
		{
			Name:    "never",
			Pattern: []Item{Words("one")},
			Produce: func([]Arg) (dimension.Dimension, error) {
				return nil, errors.New("not applicable")
			},
		},
	}
}

func mustRuleSet(t *testing.T, opts ...Option) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet(toyRules(), opts...)
	require.NoError(t, err)
	return rs
}

func TestNewRuleSetValidation(t *testing.T) {
	produce := func([]Arg) (dimension.Dimension, error) { return integer(1), nil }

	tests := []struct {
		name  string
		rules []Rule
	}{
		{"empty name", []Rule{{Pattern: []Item{Words("a")}, Produce: produce}}},
		{"duplicate", []Rule{
			{Name: "x", Pattern: []Item{Words("a")}, Produce: produce},
			{Name: "x", Pattern: []Item{Words("b")}, Produce: produce},
		}},
		{"empty pattern", []Rule{{Name: "x", Produce: produce}}},
		{"no production", []Rule{{Name: "x", Pattern: []Item{Words("a")}}}},
		{"empty words", []Rule{{Name: "x", Pattern: []Item{Words()}, Produce: produce}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleSet(tt.rules)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestCounts(t *testing.T) {
	rs := mustRuleSet(t)
	assert.Equal(t, 6, rs.NumRules())
	// 2 regexes + twenty, thirty, one, two, percent, % ("one" is shared)
	assert.Equal(t, 8, rs.NumTextPatterns())
	assert.Equal(t, "integer (numeric)", rs.RuleNames()[0])
}

func values(nodes []*Node) map[string][]dimension.Dimension {
	out := make(map[string][]dimension.Dimension)
	for _, n := range nodes {
		out[n.Rule] = append(out[n.Rule], n.Value)
	}
	return out
}

func TestApplyComposes(t *testing.T) {
	rs := mustRuleSet(t)
	text := "twenty-one people, 30 %"
	nodes, err := rs.Apply(text)
	require.NoError(t, err)

	got := values(nodes)
	assert.Equal(t, []dimension.Dimension{integer(21)}, got["integer (tens-units)"])
	assert.Contains(t, got["percent"], dimension.Percentage{Value: 30})
	assert.Empty(t, got["never"])

	for _, n := range nodes {
		assert.True(t, n.Range.Start >= 0 && n.Range.End <= len(text) && n.Range.Start <= n.Range.End)
		if n.Rule == "integer (tens-units)" {
			assert.Equal(t, "twenty-one", n.Range.Slice(text))
			assert.Equal(t, 2, n.Height())
			assert.Equal(t, 3, n.NumNodes())
		}
	}
}

func TestApplyWordBoundaries(t *testing.T) {
	rs := mustRuleSet(t)
	nodes, err := rs.Apply("someone twentyish a1b")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestApplyOnlyWhitespaceBetweenItems(t *testing.T) {
	rs := mustRuleSet(t)
	nodes, err := rs.Apply("30, percent")
	require.NoError(t, err)
	assert.Empty(t, values(nodes)["percent"])

	nodes, err = rs.Apply("30 \t percent")
	require.NoError(t, err)
	assert.Len(t, values(nodes)["percent"], 1)
}

func TestApplyDeterministic(t *testing.T) {
	rs := mustRuleSet(t)
	text := "twenty-two and thirty-one percent, 12%"
	first, err := rs.Apply(text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := rs.Apply(text)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].ID, again[j].ID)
			assert.Equal(t, first[j].Rule, again[j].Rule)
			assert.Equal(t, first[j].Range, again[j].Range)
			assert.Equal(t, first[j].Value, again[j].Value)
		}
	}
}

func TestApplyEmpty(t *testing.T) {
	rs := mustRuleSet(t)
	for _, text := range []string{"", "   "} {
		nodes, err := rs.Apply(text)
		require.NoError(t, err)
		assert.Empty(t, nodes)
	}
}

func TestApplyRecoversPanickingProduction(t *testing.T) {
	rules := append(toyRules(), Rule{
		Name:    "broken",
		Pattern: []Item{Words("$"), Dim(dimension.KindNumber)},
		Produce: func(args []Arg) (dimension.Dimension, error) {
			// terminals carry no value
			return args[0].Value().(dimension.Percentage), nil
		},
	})
	rs, err := NewRuleSet(rules)
	require.NoError(t, err)

	var nodes []*Node
	require.NotPanics(t, func() { nodes, err = rs.Apply("$5") })
	require.NoError(t, err)
	for _, n := range nodes {
		assert.NotEqual(t, "broken", n.Rule)
	}
	assert.Contains(t, values(nodes)["integer (numeric)"], integer(5))

	_, err = produce(&rules[len(rules)-1], []Arg{{Text: "$"}})
	assert.ErrorIs(t, err, ErrProduction)
}

func TestApplyLimits(t *testing.T) {
	rs := mustRuleSet(t, WithMaxNodes(2))
	_, err := rs.Apply("1 2 3 4")
	assert.ErrorIs(t, err, ErrForestTooLarge)

	rs = mustRuleSet(t, WithMaxHeight(1))
	nodes, err := rs.Apply("twenty-one")
	require.NoError(t, err)
	for _, n := range nodes {
		assert.Equal(t, 1, n.Height())
	}
}

func TestRange(t *testing.T) {
	a := NewRange(2, 6)
	assert.Equal(t, 4, a.Len())
	assert.True(t, a.Overlaps(NewRange(5, 9)))
	assert.False(t, a.Overlaps(NewRange(6, 9)))
	assert.True(t, a.Contains(NewRange(2, 6)))
	assert.False(t, a.StrictlyContains(NewRange(2, 6)))
	assert.True(t, a.StrictlyContains(NewRange(3, 6)))
	assert.Equal(t, "", NewRange(4, 2).Slice("abcdef"))
}

func TestCharRange(t *testing.T) {
	text := "€5 and 10°"
	// "€" is three bytes
	assert.Equal(t, NewRange(0, 2), CharRange(text, NewRange(0, 4)))
	assert.Equal(t, NewRange(7, 10), CharRange(text, NewRange(9, len(text))))
	assert.Equal(t, Range{}, CharRange(text, NewRange(0, 99)))
}
