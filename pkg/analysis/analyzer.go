// Package analysis aggregates parses of an example corpus into a report.
package analysis

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// Span is one match of a parsed example.
type Span struct {
	Range  rules.Range `json:"range"`
	Kind   output.Kind `json:"kind"`
	Latent bool        `json:"latent,omitempty"`
}

// Sample is the outcome of parsing one example.
type Sample struct {
	Text     string `json:"text"`
	Spans    []Span `json:"spans"`
	Correct  bool   `json:"correct"`  // a whole-text match has the expected value
	Failures int    `json:"failures"` // candidates that failed to resolve
}

// Entry is the per-example line of a report.
type Entry struct {
	Text        string  `json:"text"`
	Matches     int     `json:"matches"`
	FullyCovers bool    `json:"fullyCovers"`
	Correct     bool    `json:"correct"`
	Coverage    float64 `json:"coverage"` // 0-1
	Failures    int     `json:"failures"`
}

// Report holds the computed stats
type Report struct {
	Examples           int            `json:"examples"`
	Parsed             int            `json:"parsed"`       // at least one match
	FullyCovered       int            `json:"fullyCovered"` // one match spans the trimmed text
	Correct            int            `json:"correct"`
	Coverage           float64        `json:"coverage"`      // matched bytes / non-blank bytes
	CoverageScore      float64        `json:"coverageScore"` // 0-100, smoothed
	CoverageTrend      []int          `json:"coverageTrend"` // sparkline data
	ResolutionFailures int            `json:"resolutionFailures"`
	Kinds              map[string]int `json:"kinds"` // matches per kind name
	Entries            []Entry        `json:"entries"`
}

// Accuracy is the share of examples whose whole text parsed to the expected value.
func (r Report) Accuracy() float64 {
	if r.Examples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Examples)
}

// Analyzer accumulates samples. It is not safe for concurrent use.
type Analyzer struct {
	samples []Sample
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Add records one sample.
func (a *Analyzer) Add(s Sample) {
	a.samples = append(a.samples, s)
}

// Len returns the number of samples recorded.
func (a *Analyzer) Len() int {
	return len(a.samples)
}

// Report computes the full suite of metrics.
func (a *Analyzer) Report() Report {
	r := Report{Examples: len(a.samples), Kinds: make(map[string]int)}

	var covered, total uint64
	var scores []int
	for _, s := range a.samples {
		e := entry(s)
		r.Entries = append(r.Entries, e)

		if e.Matches > 0 {
			r.Parsed++
		}
		if e.FullyCovers {
			r.FullyCovered++
		}
		if e.Correct {
			r.Correct++
		}
		r.ResolutionFailures += s.Failures
		for _, sp := range s.Spans {
			r.Kinds[sp.Kind.String()]++
		}

		c, n := coverage(s)
		covered += c
		total += n

		// Smoothing (weighted moving average)
		score := int(100 * e.Coverage)
		if len(scores) > 0 {
			score = int(0.7*float64(score) + 0.3*float64(scores[len(scores)-1]))
		}
		scores = append(scores, clamp(score))
	}

	if total > 0 {
		r.Coverage = float64(covered) / float64(total)
	}
	r.CoverageTrend = scores
	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		r.CoverageScore = float64(sum) / float64(len(scores))
	}
	return r
}

// KindsByCount returns the kind names seen, most frequent first.
func (r Report) KindsByCount() []string {
	kinds := make([]string, 0, len(r.Kinds))
	for k := range r.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if r.Kinds[kinds[i]] != r.Kinds[kinds[j]] {
			return r.Kinds[kinds[i]] > r.Kinds[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

func entry(s Sample) Entry {
	e := Entry{Text: s.Text, Matches: len(s.Spans), Correct: s.Correct, Failures: s.Failures}
	whole := rules.Trimmed(s.Text)
	for _, sp := range s.Spans {
		if sp.Range == whole && !whole.IsEmpty() {
			e.FullyCovers = true
		}
	}
	if c, n := coverage(s); n > 0 {
		e.Coverage = float64(c) / float64(n)
	}
	return e
}

// coverage returns the matched and total non-blank byte counts of a sample.
func coverage(s Sample) (covered, total uint64) {
	text := roaring.New()
	for i := 0; i < len(s.Text); i++ {
		switch s.Text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			text.Add(uint32(i))
		}
	}
	matched := roaring.New()
	for _, sp := range s.Spans {
		if !sp.Range.IsEmpty() {
			matched.AddRange(uint64(sp.Range.Start), uint64(sp.Range.End))
		}
	}
	return text.AndCardinality(matched), text.GetCardinality()
}

func clamp(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
