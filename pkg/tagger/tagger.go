// Package tagger prunes a scored parse forest into the candidates worth
// resolving: a kind filter followed by priority-ordered interval selection.
package tagger

import (
	"errors"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/rules"
)

var errNoValue = errors.New("tagger: resolution produced no value")

// Scored is a parse node and its probalog.
type Scored struct {
	Node     *rules.Node
	Probalog float64
}

// Candidate is a node selected for resolution under Kind. Latent candidates
// are only returned in exhaustive mode: alternatives that lost their span,
// and nodes whose value is itself a latent reading.
type Candidate struct {
	Node     *rules.Node
	Kind     output.Kind
	Probalog float64
	Latent   bool
	Value    output.Output // set when the tagger has a Resolve func
}

// ResolveFunc turns a node into the output of kind.
type ResolveFunc func(kind output.Kind, n *rules.Node) (output.Output, error)

// CandidateTagger selects candidates. Kinds earlier in Order win overlaps
// against later ones; kinds missing from Order are never returned.
//
// With Resolve set, a candidate is resolved before it claims its span. One
// that fails is reported to Dropped and leaves the span to its
// alternatives.
type CandidateTagger struct {
	Order                []output.Kind
	ResolveAllCandidates bool
	Resolve              ResolveFunc
	Dropped              func(c Candidate, err error)
}

// resolve fills c.Value. It reports false when the candidate is dropped.
func (t CandidateTagger) resolve(c *Candidate) bool {
	if t.Resolve == nil {
		return true
	}
	v, err := t.Resolve(c.Kind, c.Node)
	if err == nil && v == nil {
		err = errNoValue
	}
	if err != nil {
		if t.Dropped != nil {
			t.Dropped(*c, err)
		}
		return false
	}
	c.Value = v
	return true
}

// Tag returns candidates grouped by kind in Order, each group in rank order.
// Without ResolveAllCandidates no two returned candidates overlap.
func (t CandidateTagger) Tag(forest []Scored) []Candidate {
	if len(forest) == 0 || len(t.Order) == 0 {
		return nil
	}

	byKind := make(map[output.Kind][]Scored)
	for _, s := range forest {
		if s.Node == nil {
			continue
		}
		if k, ok := output.KindOf(s.Node.Value); ok {
			byKind[k] = append(byKind[k], s)
		}
	}

	var out []Candidate
	occupied := roaring.New() // bytes claimed by higher-priority kinds
	done := make(map[output.Kind]bool, len(t.Order))
	for _, kind := range t.Order {
		if done[kind] {
			continue
		}
		done[kind] = true

		group := byKind[kind]
		sort.SliceStable(group, func(i, j int) bool { return outranks(group[i], group[j]) })

		claimed := roaring.New()
		var committed []rules.Range
		for _, s := range group {
			span := s.Node.Range
			bits := spanBits(span)
			if occupied.Intersects(bits) {
				continue
			}
			if containedIn(committed, span) {
				continue
			}
			c := Candidate{Node: s.Node, Kind: kind, Probalog: s.Probalog}
			if !s.Node.Latent() && !claimed.Intersects(bits) {
				if !t.resolve(&c) {
					continue
				}
				claimed.Or(bits)
				committed = append(committed, span)
				out = append(out, c)
				continue
			}
			if t.ResolveAllCandidates {
				c.Latent = true
				if t.resolve(&c) {
					out = append(out, c)
				}
			}
		}
		occupied.Or(claimed)
	}
	return out
}

// outranks orders candidates of one kind: wider span, then higher
// probalog, then lower tree, then fewer nodes, then earlier start.
func outranks(a, b Scored) bool {
	if la, lb := a.Node.Range.Len(), b.Node.Range.Len(); la != lb {
		return la > lb
	}
	if a.Probalog != b.Probalog {
		return a.Probalog > b.Probalog
	}
	if ha, hb := a.Node.Height(), b.Node.Height(); ha != hb {
		return ha < hb
	}
	if na, nb := a.Node.NumNodes(), b.Node.NumNodes(); na != nb {
		return na < nb
	}
	if a.Node.Range.Start != b.Node.Range.Start {
		return a.Node.Range.Start < b.Node.Range.Start
	}
	return a.Node.ID < b.Node.ID
}

func spanBits(r rules.Range) *roaring.Bitmap {
	bm := roaring.New()
	if r.End > r.Start {
		bm.AddRange(uint64(r.Start), uint64(r.End))
	}
	return bm
}

// containedIn reports whether r lies strictly inside a committed span.
func containedIn(committed []rules.Range, r rules.Range) bool {
	for _, c := range committed {
		if c.StrictlyContains(r) {
			return true
		}
	}
	return false
}
