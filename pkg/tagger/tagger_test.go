package tagger

import (
	"errors"
	"testing"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forestBuilder struct {
	next   int
	forest []Scored
}

func (b *forestBuilder) add(start, end int, value dimension.Dimension, probalog float64, children ...*rules.Node) *rules.Node {
	n := rules.NewNode(b.next, "rule", rules.NewRange(start, end), children, value)
	b.next++
	b.forest = append(b.forest, Scored{Node: n, Probalog: probalog})
	return n
}

func number(v int64) dimension.Dimension { return dimension.Integer{Value: v} }

func date() dimension.Dimension { return dimension.Time{Form: dimension.FormDate, Month: 5, Day: 12} }

func spans(cands []Candidate) []rules.Range {
	out := make([]rules.Range, len(cands))
	for i, c := range cands {
		out[i] = c.Node.Range
	}
	return out
}

func TestTagEmpty(t *testing.T) {
	assert.Empty(t, CandidateTagger{Order: output.All()}.Tag(nil))

	var b forestBuilder
	b.add(0, 3, number(1), -1)
	assert.Empty(t, CandidateTagger{}.Tag(b.forest))
}

func TestTagKindFilter(t *testing.T) {
	var b forestBuilder
	b.add(0, 2, number(12), -1)
	b.add(3, 8, dimension.UnitOfDuration{}, -1)
	b.add(9, 12, dimension.Percentage{Value: 4}, -1)

	got := CandidateTagger{Order: []output.Kind{output.Number}}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, output.Number, got[0].Kind)
	assert.Equal(t, rules.NewRange(0, 2), got[0].Node.Range)
}

func TestTagPriorityBlocksLowerKinds(t *testing.T) {
	// "may 12": the day number sits inside the date.
	var b forestBuilder
	day := b.add(4, 6, number(12), -0.1)
	b.add(0, 6, date(), -2, day)

	got := CandidateTagger{Order: []output.Kind{output.Time, output.Number}}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, output.Time, got[0].Kind)

	// Exhaustive mode still drops the contained number.
	got = CandidateTagger{Order: []output.Kind{output.Time, output.Number}, ResolveAllCandidates: true}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, output.Time, got[0].Kind)

	// Reversing the order lets the number win and blocks the date.
	got = CandidateTagger{Order: []output.Kind{output.Number, output.Time}}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, output.Number, got[0].Kind)
}

func TestTagFailedResolutionFreesSpan(t *testing.T) {
	// "february 30": the date cannot resolve, so "february" and 30 remain.
	var b forestBuilder
	month := b.add(0, 8, dimension.Time{Form: dimension.FormMonth, Month: 2}, -1)
	day := b.add(9, 11, number(30), -0.1)
	b.add(0, 11, dimension.Time{Form: dimension.FormDate, Month: 2, Day: 30}, -0.5, month, day)

	errBadDate := errors.New("no such date")
	var dropped []rules.Range
	ct := CandidateTagger{
		Order: []output.Kind{output.Time, output.Number},
		Resolve: func(kind output.Kind, n *rules.Node) (output.Output, error) {
			if tm, ok := n.Value.(dimension.Time); ok && tm.Day == 30 {
				return nil, errBadDate
			}
			if kind == output.Number {
				return output.IntegerOutput(n.Value.(dimension.Integer).Value), nil
			}
			return output.TimeOutput{}, nil
		},
		Dropped: func(c Candidate, err error) {
			assert.ErrorIs(t, err, errBadDate)
			dropped = append(dropped, c.Node.Range)
		},
	}

	got := ct.Tag(b.forest)
	require.Len(t, got, 2)
	assert.Equal(t, []rules.Range{rules.NewRange(0, 8), rules.NewRange(9, 11)}, spans(got))
	assert.Equal(t, output.Number, got[1].Kind)
	assert.Equal(t, output.IntegerOutput(30), got[1].Value)
	assert.Equal(t, []rules.Range{rules.NewRange(0, 11)}, dropped)
}

func TestTagNilValueIsDropped(t *testing.T) {
	var b forestBuilder
	b.add(0, 2, number(12), -1)

	var drops int
	got := CandidateTagger{
		Order:   []output.Kind{output.Number},
		Resolve: func(output.Kind, *rules.Node) (output.Output, error) { return nil, nil },
		Dropped: func(Candidate, error) { drops++ },
	}.Tag(b.forest)
	assert.Empty(t, got)
	assert.Equal(t, 1, drops)
}

func TestTagAdjacentEntities(t *testing.T) {
	var b forestBuilder
	b.add(0, 5, number(3), -1)
	b.add(6, 17, date(), -1)

	got := CandidateTagger{Order: []output.Kind{output.Number, output.Time}}.Tag(b.forest)
	require.Len(t, got, 2)
	assert.Equal(t, []rules.Range{rules.NewRange(0, 5), rules.NewRange(6, 17)}, spans(got))
}

func TestTagWithinKindRanking(t *testing.T) {
	var b forestBuilder
	twenty := b.add(0, 6, number(20), -0.1)
	one := b.add(7, 10, number(1), -0.1)
	b.add(0, 10, number(21), -3, twenty, one)
	// Same span, lower score.
	b.add(0, 10, number(201), -5, twenty, one)

	got := CandidateTagger{Order: []output.Kind{output.Number}}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, number(21), got[0].Node.Value)
	assert.False(t, got[0].Latent)

	got = CandidateTagger{Order: []output.Kind{output.Number}, ResolveAllCandidates: true}.Tag(b.forest)
	// The equal-span alternative is kept as latent; strictly contained parts are dropped.
	require.Len(t, got, 2)
	assert.Equal(t, number(21), got[0].Node.Value)
	assert.False(t, got[0].Latent)
	assert.Equal(t, number(201), got[1].Node.Value)
	assert.True(t, got[1].Latent)
}

func TestTagTieBreaks(t *testing.T) {
	var b forestBuilder
	leaf := b.add(0, 2, number(7), -1)
	deep := b.add(0, 4, number(70), -1, leaf)
	flat := b.add(0, 4, number(71), -1)
	_ = deep

	got := CandidateTagger{Order: []output.Kind{output.Number}}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Same(t, flat, got[0].Node)
}

func TestTagLatentNeverCommits(t *testing.T) {
	var b forestBuilder
	b.add(0, 2, dimension.Temperature{Value: 20, IsLatent: true}, -0.1)
	b.add(0, 2, number(20), -0.5)

	order := []output.Kind{output.Temperature, output.Number}
	got := CandidateTagger{Order: order}.Tag(b.forest)
	require.Len(t, got, 1)
	assert.Equal(t, output.Number, got[0].Kind)

	got = CandidateTagger{Order: order, ResolveAllCandidates: true}.Tag(b.forest)
	require.Len(t, got, 2)
	assert.Equal(t, output.Temperature, got[0].Kind)
	assert.True(t, got[0].Latent)
	assert.Equal(t, output.Number, got[1].Kind)
	assert.False(t, got[1].Latent)
}

func TestTagNonOverlapProperty(t *testing.T) {
	var b forestBuilder
	for start := 0; start < 30; start += 3 {
		b.add(start, start+5, number(int64(start)), -float64(start%4))
		b.add(start, start+2, dimension.Ordinal{Value: int64(start)}, -1)
		b.add(start+1, start+7, date(), -float64(start%3))
	}
	order := output.All()
	got := CandidateTagger{Order: order}.Tag(b.forest)
	require.NotEmpty(t, got)

	rank := make(map[output.Kind]int)
	for i, k := range order {
		rank[k] = i
	}
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.False(t, got[i].Node.Range.Overlaps(got[j].Node.Range), "%v overlaps %v", got[i].Node.Range, got[j].Node.Range)
		}
		if i > 0 {
			assert.LessOrEqual(t, rank[got[i-1].Kind], rank[got[i].Kind])
		}
	}
}
