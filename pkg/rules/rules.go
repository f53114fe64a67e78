// Package rules matches text against a rule set and builds the forest of
// overlapping parse nodes that the tagger later prunes.
//
// A rule is a sequence of items. Text items (regular expressions and word
// lists) match the input directly; dimension items match nodes already
// produced by other rules. Rules are applied repeatedly until no new node
// can be built.
package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kittclouds/ontokit/pkg/dimension"
)

var (
	// ErrForestTooLarge is returned by Apply when the node limit is reached.
	ErrForestTooLarge = errors.New("rules: parse forest exceeds node limit")
	// ErrInvalidRule is returned by NewRuleSet for malformed rules.
	ErrInvalidRule = errors.New("rules: invalid rule")
	// ErrProduction marks a production that panicked.
	ErrProduction = errors.New("rules: production panicked")
)

const (
	DefaultMaxNodes  = 20000
	DefaultMaxHeight = 12
)

// ============================================================================
// Items
// ============================================================================

// Item is one element of a rule pattern.
type Item interface {
	describe() string
}

// Pred filters the nodes a dimension item accepts.
type Pred func(dimension.Dimension) bool

type regexItem struct {
	src string
	re  *regexp.Regexp
}

type wordsItem struct {
	words []string
}

type dimItem struct {
	kind  dimension.Kind
	preds []Pred
}

func (i regexItem) describe() string { return "regex(" + i.src + ")" }
func (i wordsItem) describe() string { return fmt.Sprintf("words%v", i.words) }
func (i dimItem) describe() string { return "dim(" + i.kind.String() + ")" }

// Regex matches a case-insensitive regular expression.
// It panics if the expression does not compile, like regexp.MustCompile.
func Regex(pattern string) Item {
	return regexItem{src: pattern, re: regexp.MustCompile(`(?i)^(?:` + pattern + `)`)}
}

// Words matches any of the given words, case-insensitive. Each word is a
// single token; phrases are written as a sequence of items.
func Words(words ...string) Item {
	return wordsItem{words: words}
}

// Dim matches a node whose value has the given kind and satisfies every predicate.
func Dim(kind dimension.Kind, preds ...Pred) Item {
	return dimItem{kind: kind, preds: preds}
}

func (i dimItem) accepts(d dimension.Dimension) bool {
	if d == nil || d.Kind() != i.kind {
		return false
	}
	for _, p := range i.preds {
		if !p(d) {
			return false
		}
	}
	return true
}

// Arg is what one item of a rule matched.
type Arg struct {
	Range  Range
	Text   string
	Groups []string // regex submatches, Groups[0] is the whole match
	Node   *Node    // set for dimension items
}

// Value returns the dimension of a node argument, nil for text arguments.
func (a Arg) Value() dimension.Dimension {
	if a.Node == nil {
		return nil
	}
	return a.Node.Value
}

// Group returns regex submatch i, or "" when it did not participate.
func (a Arg) Group(i int) string {
	if i < 0 || i >= len(a.Groups) {
		return ""
	}
	return a.Groups[i]
}

// ============================================================================
// Rules
// ============================================================================

// Rule produces a dimension from a sequence of matched items. A Produce
// error means the rule does not apply to that particular match.
type Rule struct {
	Name    string
	Pattern []Item
	Produce func(args []Arg) (dimension.Dimension, error)
}

type compiledRule struct {
	Rule
	items []int // global item ids, parallel to Pattern
}

// RuleSet is an immutable, compiled set of rules. It is safe for concurrent use.
type RuleSet struct {
	rules     []compiledRule
	items     []Item
	regexes   []int // ids of regex items
	lex       *lexicon
	maxNodes  int
	maxHeight int
}

// Option configures a RuleSet.
type Option func(*RuleSet)

// WithMaxNodes bounds the number of nodes a single Apply may build.
func WithMaxNodes(n int) Option {
	return func(rs *RuleSet) { rs.maxNodes = n }
}

// WithMaxHeight bounds the height of any node; taller nodes are not built.
func WithMaxHeight(h int) Option {
	return func(rs *RuleSet) { rs.maxHeight = h }
}

// NewRuleSet validates and compiles rules.
func NewRuleSet(rules []Rule, opts ...Option) (*RuleSet, error) {
	rs := &RuleSet{
		lex:       newLexicon(),
		maxNodes:  DefaultMaxNodes,
		maxHeight: DefaultMaxHeight,
	}
	for _, opt := range opts {
		opt(rs)
	}

	names := make(map[string]bool, len(rules))
	for _, r := range rules {
		switch {
		case r.Name == "":
			return nil, fmt.Errorf("%w: empty name", ErrInvalidRule)
		case names[r.Name]:
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRule, r.Name)
		case len(r.Pattern) == 0:
			return nil, fmt.Errorf("%w: %q has an empty pattern", ErrInvalidRule, r.Name)
		case r.Produce == nil:
			return nil, fmt.Errorf("%w: %q has no production", ErrInvalidRule, r.Name)
		}
		names[r.Name] = true

		cr := compiledRule{Rule: r, items: make([]int, len(r.Pattern))}
		for k, item := range r.Pattern {
			id := len(rs.items)
			rs.items = append(rs.items, item)
			cr.items[k] = id
			switch it := item.(type) {
			case regexItem:
				rs.regexes = append(rs.regexes, id)
			case wordsItem:
				if len(it.words) == 0 {
					return nil, fmt.Errorf("%w: %q has an empty word list", ErrInvalidRule, r.Name)
				}
				for _, w := range it.words {
					rs.lex.add(w, id)
				}
			case dimItem:
			default:
				return nil, fmt.Errorf("%w: %q has an unsupported item %T", ErrInvalidRule, r.Name, item)
			}
		}
		rs.rules = append(rs.rules, cr)
	}
	rs.lex.build()
	return rs, nil
}

// NumRules returns the number of rules.
func (rs *RuleSet) NumRules() int {
	return len(rs.rules)
}

// NumTextPatterns returns the number of regular expressions plus the number
// of distinct lexicon words.
func (rs *RuleSet) NumTextPatterns() int {
	return len(rs.regexes) + rs.lex.size()
}

// RuleNames returns rule names in declaration order.
func (rs *RuleSet) RuleNames() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}
