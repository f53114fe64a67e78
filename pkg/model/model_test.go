package model

import (
	"bytes"
	"math"
	"strconv"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ruleFeatures uses the rule names of a node's children.
var ruleFeatures = FeatureFunc(func(n *rules.Node) []string {
	fs := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		fs = append(fs, c.Rule)
	}
	return fs
})

func testRuleSet(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.NewRuleSet([]rules.Rule{
		{
			Name:    "number",
			Pattern: []rules.Item{rules.Regex(`\d+`)},
			Produce: func(args []rules.Arg) (dimension.Dimension, error) {
				v, err := strconv.ParseInt(args[0].Text, 10, 64)
				return dimension.Integer{Value: v, Numeric: true}, err
			},
		},
		{
			Name:    "latent temperature",
			Pattern: []rules.Item{rules.Dim(dimension.KindNumber)},
			Produce: func(args []rules.Arg) (dimension.Dimension, error) {
				v, _ := dimension.NumberValue(args[0].Value())
				return dimension.Temperature{Value: v, IsLatent: true}, nil
			},
		},
		{
			Name:    "degrees",
			Pattern: []rules.Item{rules.Dim(dimension.KindTemperature), rules.Words("degrees")},
			Produce: func(args []rules.Arg) (dimension.Dimension, error) {
				t := args[0].Value().(dimension.Temperature)
				return dimension.Temperature{Value: t.Value, Unit: "degree"}, nil
			},
		},
	})
	require.NoError(t, err)
	return rs
}

func isTemperature(v float64) func(dimension.Dimension) bool {
	return func(d dimension.Dimension) bool {
		t, ok := d.(dimension.Temperature)
		return ok && !t.IsLatent && t.Value == v
	}
}

func isNumber(v int64) func(dimension.Dimension) bool {
	return func(d dimension.Dimension) bool {
		n, ok := d.(dimension.Integer)
		return ok && n.Value == v
	}
}

func trained(t *testing.T) (*rules.RuleSet, *Model) {
	rs := testRuleSet(t)
	m, stats, err := Train(rs, []Example{
		{Text: "20 degrees", Check: isTemperature(20)},
		{Text: "  3 degrees ", Check: isTemperature(3)},
		{Text: "42", Check: isNumber(42)},
		{Text: "7", Check: isNumber(7)},
		{Text: "nothing here", Check: isNumber(1)},
	}, ruleFeatures)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Examples)
	assert.Equal(t, []string{"nothing here"}, stats.Unmatched)
	assert.Positive(t, stats.Positive)
	assert.Positive(t, stats.Negative)
	return rs, m
}

func TestClassifierLogProb(t *testing.T) {
	c := &Classifier{}
	for i := 0; i < 8; i++ {
		c.Observe([]string{"good"}, true)
		c.Observe([]string{"bad"}, false)
	}
	good := c.LogProb([]string{"good"})
	bad := c.LogProb([]string{"bad"})
	assert.Greater(t, good, bad)
	assert.LessOrEqual(t, good, 0.0)
	assert.InDelta(t, math.Log(0.5), c.LogProb(nil), 1e-9)
}

func TestScore(t *testing.T) {
	rs, m := trained(t)

	nodes, err := rs.Apply("20 degrees")
	require.NoError(t, err)
	scores := make(map[string]float64)
	for _, n := range nodes {
		s := m.Score(n, ruleFeatures)
		assert.False(t, math.IsNaN(s) || math.IsInf(s, 0))
		assert.LessOrEqual(t, s, 0.0)
		scores[n.Rule] = s
	}
	require.Contains(t, scores, "degrees")
	require.Contains(t, scores, "number")

	// Unknown rules contribute log 0.5 per node.
	empty := New()
	for _, n := range nodes {
		assert.InDelta(t, float64(n.NumNodes())*math.Log(0.5), empty.Score(n, ruleFeatures), 1e-9)
	}
}

func TestTrainPrefersCorrectReading(t *testing.T) {
	rs, m := trained(t)
	nodes, err := rs.Apply("42")
	require.NoError(t, err)

	var number, latent float64
	for _, n := range nodes {
		switch n.Rule {
		case "number":
			number = m.Score(n, ruleFeatures)
		case "latent temperature":
			latent = m.Score(n, ruleFeatures)
		}
	}
	assert.Greater(t, number, latent)
}

func TestEncodeDecode(t *testing.T) {
	_, m := trained(t)
	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Rules(), decoded.Rules())
	assert.Equal(t, m.Classifiers["degrees"], decoded.Classifiers["degrees"])

	_, err = Decode(bytes.NewReader([]byte("not a model")))
	assert.ErrorIs(t, err, ErrMalformedModel)
}

func TestSaveLoad(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	_, err = Load(fs, "models/en.gob")
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, m := trained(t)
	require.NoError(t, Save(fs, "models/en.gob", m))

	loaded, err := Load(fs, "models/en.gob")
	require.NoError(t, err)
	assert.Equal(t, m.Classifiers, loaded.Classifiers)

	require.NoError(t, hackpadfs.WriteFullFile(fs, "models/bad.gob", []byte{0x1, 0x2}, 0o644))
	_, err = Load(fs, "models/bad.gob")
	assert.ErrorIs(t, err, ErrMalformedModel)
}
