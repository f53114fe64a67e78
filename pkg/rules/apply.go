package rules

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
)

// chart holds the state of one Apply call.
type chart struct {
	rs   *RuleSet
	text string

	// item id -> terminal matches, ordered by start
	terms [][]Arg
	// item id -> start offset -> terminal matches
	termsAt []map[int][]Arg

	nodes   []*Node
	nodesAt map[int][]*Node

	tried  map[string]bool
	byspan map[spanKey][]*Node
}

type spanKey struct {
	rule  int
	start int
	end   int
}

// Apply matches text against the rule set and returns every node built,
// in construction order. The result is deterministic for a given text and
// rule set; all ranges lie within text.
func (rs *RuleSet) Apply(text string) ([]*Node, error) {
	c := &chart{
		rs:      rs,
		text:    text,
		terms:   make([][]Arg, len(rs.items)),
		termsAt: make([]map[int][]Arg, len(rs.items)),
		nodesAt: make(map[int][]*Node),
		tried:   make(map[string]bool),
		byspan:  make(map[spanKey][]*Node),
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	c.scanTerminals()

	for {
		added := 0
		for ri := range rs.rules {
			n, err := c.applyRule(ri)
			if err != nil {
				return nil, err
			}
			added += n
		}
		if added == 0 {
			break
		}
	}
	return c.nodes, nil
}

// ============================================================================
// Terminals
// ============================================================================

func (c *chart) addTerm(item int, a Arg) {
	if c.termsAt[item] == nil {
		c.termsAt[item] = make(map[int][]Arg)
	}
	c.terms[item] = append(c.terms[item], a)
	c.termsAt[item][a.Range.Start] = append(c.termsAt[item][a.Range.Start], a)
}

func (c *chart) scanTerminals() {
	c.rs.lex.scan(c.text, func(item int, r Range) {
		text := r.Slice(c.text)
		c.addTerm(item, Arg{Range: r, Text: text, Groups: []string{text}})
	})

	starts := tokenStarts(c.text)
	for _, id := range c.rs.regexes {
		re := c.rs.items[id].(regexItem).re
		for _, s := range starts {
			loc := re.FindStringSubmatchIndex(c.text[s:])
			if loc == nil || loc[1] == 0 {
				continue
			}
			end := s + loc[1]
			if !onBoundary(c.text, s, end) {
				continue
			}
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = c.text[s+loc[2*g] : s+loc[2*g+1]]
				}
			}
			c.addTerm(id, Arg{Range: Range{Start: s, End: end}, Text: groups[0], Groups: groups})
		}
	}

	for id := range c.terms {
		sort.SliceStable(c.terms[id], func(i, j int) bool {
			return c.terms[id][i].Range.Start < c.terms[id][j].Range.Start
		})
	}
}

// ============================================================================
// Rule application
// ============================================================================

// applyRule builds every new node of rule ri over the current chart and
// returns how many were added.
func (c *chart) applyRule(ri int) (int, error) {
	rule := &c.rs.rules[ri]
	var matches [][]Arg
	args := make([]Arg, 0, len(rule.items))

	var extend func(k, at int)
	extend = func(k, at int) {
		if k == len(rule.items) {
			matches = append(matches, append([]Arg(nil), args...))
			return
		}
		for _, a := range c.candidates(rule.items[k], k == 0, at) {
			args = append(args, a)
			extend(k+1, skipSpace(c.text, a.Range.End))
			args = args[:len(args)-1]
		}
	}
	extend(0, 0)

	added := 0
	for _, m := range matches {
		key := matchKey(ri, m)
		if c.tried[key] {
			continue
		}
		c.tried[key] = true

		value, err := produce(&rule.Rule, m)
		if err != nil || value == nil {
			continue
		}

		span := Range{Start: m[0].Range.Start, End: m[len(m)-1].Range.End}
		var children []*Node
		for _, a := range m {
			if a.Node != nil {
				children = append(children, a.Node)
			}
		}
		node := NewNode(len(c.nodes), rule.Name, span, children, value)
		if node.height > c.rs.maxHeight {
			continue
		}
		sk := spanKey{rule: ri, start: span.Start, end: span.End}
		if c.duplicate(sk, value) {
			continue
		}
		if len(c.nodes) >= c.rs.maxNodes {
			return added, fmt.Errorf("%w (%d)", ErrForestTooLarge, c.rs.maxNodes)
		}
		c.nodes = append(c.nodes, node)
		c.nodesAt[span.Start] = append(c.nodesAt[span.Start], node)
		c.byspan[sk] = append(c.byspan[sk], node)
		added++
	}
	return added, nil
}

// candidates lists what item can match. The first item of a pattern may
// start anywhere; later ones must start exactly at offset at.
func (c *chart) candidates(item int, first bool, at int) []Arg {
	switch it := c.rs.items[item].(type) {
	case dimItem:
		var nodes []*Node
		if first {
			nodes = c.nodes
		} else {
			nodes = c.nodesAt[at]
		}
		var out []Arg
		for _, n := range nodes {
			if it.accepts(n.Value) {
				out = append(out, Arg{Range: n.Range, Text: n.Range.Slice(c.text), Node: n})
			}
		}
		return out
	default:
		if first {
			return c.terms[item]
		}
		if c.termsAt[item] == nil {
			return nil
		}
		return c.termsAt[item][at]
	}
}

// duplicate reports whether the rule already built an equal value over the same span.
func (c *chart) duplicate(sk spanKey, value any) bool {
	for _, n := range c.byspan[sk] {
		if reflect.DeepEqual(n.Value, value) {
			return true
		}
	}
	return false
}

func matchKey(rule int, args []Arg) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(rule))
	for _, a := range args {
		if a.Node != nil {
			b.WriteString("|n")
			b.WriteString(strconv.Itoa(a.Node.ID))
			continue
		}
		b.WriteString("|t")
		b.WriteString(strconv.Itoa(a.Range.Start))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a.Range.End))
	}
	return b.String()
}

// produce runs a production. A panicking production is treated as a
// rule that does not apply.
func produce(rule *Rule, args []Arg) (value dimension.Dimension, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("%w: %s: %v", ErrProduction, rule.Name, r)
		}
	}()
	return rule.Produce(args)
}
