// Package model scores parse nodes with one naive Bayes classifier per rule.
//
// A node's probalog is the sum, over every node of its tree, of the log
// probability that the rule applied correctly given the node's features.
package model

import (
	"math"
	"sort"

	"github.com/kittclouds/ontokit/pkg/rules"
)

// FeatureExtractor turns a node into classifier features.
type FeatureExtractor interface {
	Features(n *rules.Node) []string
}

// FeatureFunc adapts a function to FeatureExtractor.
type FeatureFunc func(n *rules.Node) []string

func (f FeatureFunc) Features(n *rules.Node) []string { return f(n) }

// Counter accumulates one class of training observations.
type Counter struct {
	Examples int
	Tokens   int
	Features map[string]int
}

func (c *Counter) add(features []string) {
	c.Examples++
	for _, f := range features {
		if c.Features == nil {
			c.Features = make(map[string]int)
		}
		c.Features[f]++
		c.Tokens++
	}
}

// Classifier is a two-class naive Bayes classifier with add-one smoothing.
type Classifier struct {
	True  Counter
	False Counter
}

// Observe records one training sample.
func (c *Classifier) Observe(features []string, correct bool) {
	if correct {
		c.True.add(features)
	} else {
		c.False.add(features)
	}
}

func (c *Classifier) vocabulary() int {
	seen := make(map[string]struct{}, len(c.True.Features)+len(c.False.Features))
	for f := range c.True.Features {
		seen[f] = struct{}{}
	}
	for f := range c.False.Features {
		seen[f] = struct{}{}
	}
	return len(seen) + 1
}

func (c *Classifier) classLog(k *Counter, features []string, vocab, total int) float64 {
	lp := math.Log(float64(k.Examples+1) / float64(total+2))
	for _, f := range features {
		lp += math.Log(float64(k.Features[f]+1) / float64(k.Tokens+vocab))
	}
	return lp
}

// LogProb returns log P(correct | features).
func (c *Classifier) LogProb(features []string) float64 {
	vocab := c.vocabulary()
	total := c.True.Examples + c.False.Examples
	lt := c.classLog(&c.True, features, vocab, total)
	lf := c.classLog(&c.False, features, vocab, total)
	hi := math.Max(lt, lf)
	return lt - (hi + math.Log(math.Exp(lt-hi)+math.Exp(lf-hi)))
}

// Model maps rule names to classifiers.
type Model struct {
	Classifiers map[string]*Classifier
}

// New returns an empty model.
func New() *Model {
	return &Model{Classifiers: make(map[string]*Classifier)}
}

// unknownRuleLog is contributed by rules the model has never seen.
var unknownRuleLog = math.Log(0.5)

// Score returns the probalog of n: always finite and at most zero.
func (m *Model) Score(n *rules.Node, fx FeatureExtractor) float64 {
	var total float64
	n.Walk(func(node *rules.Node) {
		c := m.Classifiers[node.Rule]
		if c == nil {
			total += unknownRuleLog
			return
		}
		total += c.LogProb(fx.Features(node))
	})
	return total
}

// Rules returns the names of rules with a classifier, sorted.
func (m *Model) Rules() []string {
	names := make([]string, 0, len(m.Classifiers))
	for name := range m.Classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Model) classifier(rule string) *Classifier {
	c := m.Classifiers[rule]
	if c == nil {
		c = &Classifier{}
		m.Classifiers[rule] = c
	}
	return c
}
