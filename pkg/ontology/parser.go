// Package ontology is the parser facade: it runs text through rule
// matching, scoring, candidate tagging and resolution, and returns typed
// matches.
package ontology

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/kittclouds/ontokit/pkg/analysis"
	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/grammar"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/resolver"
	"github.com/kittclouds/ontokit/pkg/rules"
	"github.com/kittclouds/ontokit/pkg/tagger"
)

// Match is one extracted value.
type Match struct {
	ByteRange rules.Range   `json:"byteRange"`
	CharRange rules.Range   `json:"charRange"`
	Text      string        `json:"text"`
	Kind      output.Kind   `json:"kind"`
	Value     output.Output `json:"value"`
	Probalog  float64       `json:"probalog"`
	Height    int           `json:"height"`
	NumNodes  int           `json:"numNodes"`
	Latent    bool          `json:"latent"`

	dim dimension.Dimension
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger dropped candidates are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithFeatures sets the feature extractor the model scores with.
func WithFeatures(fx model.FeatureExtractor) Option {
	return func(p *Parser) {
		if fx != nil {
			p.fx = fx
		}
	}
}

// Parser extracts typed values from text. It is immutable after
// construction and safe for concurrent use.
type Parser struct {
	rules *rules.RuleSet
	model *model.Model
	fx    model.FeatureExtractor
	log   *slog.Logger
}

// NewParser assembles a parser from a rule set and a trained model.
func NewParser(rs *rules.RuleSet, m *model.Model, opts ...Option) (*Parser, error) {
	if rs == nil {
		return nil, fmt.Errorf("ontology: nil rule set")
	}
	if m == nil {
		return nil, fmt.Errorf("ontology: nil model")
	}
	p := &Parser{
		rules: rs,
		model: m,
		fx:    model.FeatureFunc(func(n *rules.Node) []string { return []string{n.Rule} }),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// BuildParser returns the inference parser of lang, loading its persisted
// model from the registry filesystem.
func BuildParser(reg *grammar.Registry, lang grammar.Lang, opts ...Option) (*Parser, error) {
	rs, fx, err := resources(reg, lang)
	if err != nil {
		return nil, err
	}
	m, err := reg.ScorerModel(lang)
	if err != nil {
		return nil, err
	}
	return NewParser(rs, m, append([]Option{WithFeatures(fx)}, opts...)...)
}

// TrainParser trains a model over the example corpus of lang and returns
// the parser using it.
func TrainParser(reg *grammar.Registry, lang grammar.Lang, opts ...Option) (*Parser, model.TrainStats, error) {
	rs, fx, err := resources(reg, lang)
	if err != nil {
		return nil, model.TrainStats{}, err
	}
	examples, err := reg.Examples(lang)
	if err != nil {
		return nil, model.TrainStats{}, err
	}
	m, stats, err := model.Train(rs, examples, fx)
	if err != nil {
		return nil, stats, err
	}
	p, err := NewParser(rs, m, append([]Option{WithFeatures(fx)}, opts...)...)
	if err != nil {
		return nil, stats, err
	}
	if len(stats.Unmatched) > 0 {
		p.log.Warn("examples without a matching parse", "lang", lang, "count", len(stats.Unmatched))
	}
	return p, stats, nil
}

func resources(reg *grammar.Registry, lang grammar.Lang) (*rules.RuleSet, model.FeatureExtractor, error) {
	if reg == nil {
		return nil, nil, fmt.Errorf("ontology: nil registry")
	}
	rs, err := reg.Rules(lang)
	if err != nil {
		return nil, nil, err
	}
	fx, err := reg.FeatureExtractor(lang)
	if err != nil {
		return nil, nil, err
	}
	return rs, fx, nil
}

// Model returns the scorer model, for persistence.
func (p *Parser) Model() *model.Model {
	return p.model
}

// NumRules returns the number of grammar rules.
func (p *Parser) NumRules() int {
	return p.rules.NumRules()
}

// NumTextPatterns returns the number of text patterns the grammar matches.
func (p *Parser) NumTextPatterns() int {
	return p.rules.NumTextPatterns()
}

// ============================================================================
// Parsing
// ============================================================================

// Parse extracts every kind, in default priority order.
func (p *Parser) Parse(text string, ctx resolver.Context) ([]Match, error) {
	return p.ParseWithKindOrder(text, ctx, output.All())
}

// ParseWithKindOrder extracts the kinds in order; earlier kinds win overlaps.
// Matches are sorted by start offset and never overlap.
func (p *Parser) ParseWithKindOrder(text string, ctx resolver.Context, order []output.Kind) ([]Match, error) {
	matches, _, err := p.run(text, ctx, tagger.CandidateTagger{Order: order})
	return matches, err
}

// ParseAllCandidates is ParseWithKindOrder in exhaustive mode: alternatives
// that lost their span are returned too, flagged latent, and may overlap.
func (p *Parser) ParseAllCandidates(text string, ctx resolver.Context, order []output.Kind) ([]Match, error) {
	matches, _, err := p.run(text, ctx, tagger.CandidateTagger{Order: order, ResolveAllCandidates: true})
	return matches, err
}

// run returns the resolved matches and the number of candidates dropped.
func (p *Parser) run(text string, ctx resolver.Context, t tagger.CandidateTagger) ([]Match, int, error) {
	nodes, err := p.rules.Apply(text)
	if err != nil {
		return nil, 0, err
	}
	if len(nodes) == 0 {
		return nil, 0, nil
	}

	forest := make([]tagger.Scored, len(nodes))
	for i, n := range nodes {
		forest[i] = tagger.Scored{Node: n, Probalog: p.model.Score(n, p.fx)}
	}

	failed := 0
	t.Resolve = func(kind output.Kind, n *rules.Node) (output.Output, error) {
		return resolver.Resolve(kind, n.Value, ctx)
	}
	t.Dropped = func(c tagger.Candidate, err error) {
		failed++
		p.log.Warn("dropping candidate",
			"text", c.Node.Range.Slice(text),
			"kind", c.Kind.String(),
			"rule", c.Node.Rule,
			"error", err)
	}

	var matches []Match
	for _, c := range t.Tag(forest) {
		matches = append(matches, Match{
			ByteRange: c.Node.Range,
			CharRange: rules.CharRange(text, c.Node.Range),
			Text:      c.Node.Range.Slice(text),
			Kind:      c.Kind,
			Value:     c.Value,
			Probalog:  c.Probalog,
			Height:    c.Node.Height(),
			NumNodes:  c.Node.NumNodes(),
			Latent:    c.Latent,
			dim:       c.Node.Value,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ByteRange.Start != matches[j].ByteRange.Start {
			return matches[i].ByteRange.Start < matches[j].ByteRange.Start
		}
		return matches[i].ByteRange.End > matches[j].ByteRange.End
	})
	return matches, failed, nil
}

// ============================================================================
// Analysis
// ============================================================================

// Analyse parses every example in default priority order and reports how
// many were recognised.
func (p *Parser) Analyse(examples []model.Example, ctx resolver.Context) (analysis.Report, error) {
	return p.AnalyseWithKindOrder(examples, ctx, output.All())
}

// AnalyseWithKindOrder is Analyse restricted to the kinds in order.
func (p *Parser) AnalyseWithKindOrder(examples []model.Example, ctx resolver.Context, order []output.Kind) (analysis.Report, error) {
	a := analysis.NewAnalyzer()
	for _, ex := range examples {
		matches, failed, err := p.run(ex.Text, ctx, tagger.CandidateTagger{Order: order})
		if err != nil {
			return analysis.Report{}, fmt.Errorf("analyse %q: %w", ex.Text, err)
		}
		a.Add(sample(ex, matches, failed))
	}
	return a.Report(), nil
}

func sample(ex model.Example, matches []Match, failed int) analysis.Sample {
	s := analysis.Sample{Text: ex.Text, Failures: failed}
	whole := rules.Trimmed(ex.Text)
	for _, m := range matches {
		s.Spans = append(s.Spans, analysis.Span{Range: m.ByteRange, Kind: m.Kind, Latent: m.Latent})
		if m.ByteRange == whole && ex.Check != nil && ex.Check(m.dim) {
			s.Correct = true
		}
	}
	return s
}
