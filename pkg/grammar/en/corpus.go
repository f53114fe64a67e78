package en

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/resolver"
)

//go:embed examples.yaml
var examplesYAML []byte

type corpusFile struct {
	Reference string       `yaml:"reference"`
	Examples  []corpusItem `yaml:"examples"`
}

type corpusItem struct {
	Kind        string         `yaml:"kind"`
	Value       *float64       `yaml:"value"`
	Unit        string         `yaml:"unit"`
	Moment      string         `yaml:"moment"`
	From        string         `yaml:"from"`
	To          string         `yaml:"to"`
	Grain       string         `yaml:"grain"`
	Period      map[string]int `yaml:"period"`
	Approximate bool           `yaml:"approximate"`
	Texts       []string       `yaml:"texts"`
}

// Corpus is a parsed example corpus.
type Corpus struct {
	Reference time.Time
	Examples  []model.Example
}

// Context returns the resolution context the expectations were written against.
func (c *Corpus) Context() resolver.Context {
	return resolver.NewContext(c.Reference)
}

// ParseCorpus decodes a YAML example corpus.
func ParseCorpus(data []byte) (*Corpus, error) {
	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("en: decode corpus: %w", err)
	}
	ref, err := time.Parse(time.RFC3339, f.Reference)
	if err != nil {
		return nil, fmt.Errorf("en: corpus reference: %w", err)
	}
	c := &Corpus{Reference: ref}
	ctx := c.Context()

	for i, item := range f.Examples {
		kind, err := output.ParseKind(item.Kind)
		if err != nil {
			return nil, fmt.Errorf("en: example %d: %w", i, err)
		}
		want, err := item.expected(kind)
		if err != nil {
			return nil, fmt.Errorf("en: example %d: %w", i, err)
		}
		if len(item.Texts) == 0 {
			return nil, fmt.Errorf("en: example %d has no texts", i)
		}
		check := func(d dimension.Dimension) bool {
			got, err := resolver.Resolve(kind, d, ctx)
			return err == nil && sameOutput(got, want)
		}
		for _, text := range item.Texts {
			c.Examples = append(c.Examples, model.Example{Text: text, Check: check})
		}
	}
	return c, nil
}

// DefaultCorpus returns the embedded English corpus.
func DefaultCorpus() (*Corpus, error) {
	return ParseCorpus(examplesYAML)
}

// Examples returns the embedded English training examples.
func Examples() ([]model.Example, error) {
	c, err := DefaultCorpus()
	if err != nil {
		return nil, err
	}
	return c.Examples, nil
}

// ============================================================================
// Expectations
// ============================================================================

func (it corpusItem) value() (float64, error) {
	if it.Value == nil {
		return 0, fmt.Errorf("%s: missing value", it.Kind)
	}
	return *it.Value, nil
}

func (it corpusItem) precision() dimension.Precision {
	if it.Approximate {
		return dimension.Approximate
	}
	return dimension.Exact
}

func (it corpusItem) expected(kind output.Kind) (output.Output, error) {
	switch kind {
	case output.Number:
		v, err := it.value()
		return output.FloatOutput(v), err
	case output.Ordinal:
		v, err := it.value()
		return output.OrdinalOutput(v), err
	case output.Percentage:
		v, err := it.value()
		return output.PercentageOutput(v), err
	case output.Temperature:
		v, err := it.value()
		return output.TemperatureOutput{Value: v, Unit: it.Unit}, err
	case output.AmountOfMoney:
		v, err := it.value()
		return output.AmountOfMoneyOutput{Value: v, Unit: it.Unit, Precision: it.precision()}, err
	case output.Duration:
		var p moment.Period
		for name, n := range it.Period {
			g, err := moment.ParseGrain(name)
			if err != nil {
				return nil, err
			}
			p = p.Plus(moment.PeriodOf(g, n))
		}
		if p.IsZero() {
			return nil, fmt.Errorf("duration: missing period")
		}
		return output.DurationOutput{Period: p, Precision: it.precision(), Seconds: p.Seconds()}, nil
	case output.Time:
		return it.expectedTime()
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func (it corpusItem) expectedTime() (output.Output, error) {
	g, err := moment.ParseGrain(it.Grain)
	if err != nil {
		return nil, err
	}
	if it.From != "" || it.To != "" {
		from, err := time.Parse(time.RFC3339, it.From)
		if err != nil {
			return nil, err
		}
		to, err := time.Parse(time.RFC3339, it.To)
		if err != nil {
			return nil, err
		}
		return output.TimeIntervalOutput{From: from, To: to, Grain: g}, nil
	}
	at, err := time.Parse(time.RFC3339, it.Moment)
	if err != nil {
		return nil, err
	}
	return output.TimeOutput{Moment: at, Grain: g, Precision: it.precision()}, nil
}

// sameOutput compares instants by Equal and numbers by value, so an integer
// and a float of the same value match.
func sameOutput(got, want output.Output) bool {
	const eps = 1e-9
	switch w := want.(type) {
	case output.FloatOutput:
		switch g := got.(type) {
		case output.IntegerOutput:
			return math.Abs(float64(g)-float64(w)) < eps
		case output.FloatOutput:
			return math.Abs(float64(g)-float64(w)) < eps
		}
		return false
	case output.AmountOfMoneyOutput:
		g, ok := got.(output.AmountOfMoneyOutput)
		return ok && g.Unit == w.Unit && g.Precision == w.Precision && math.Abs(g.Value-w.Value) < eps
	case output.PercentageOutput:
		g, ok := got.(output.PercentageOutput)
		return ok && math.Abs(float64(g)-float64(w)) < eps
	case output.TemperatureOutput:
		g, ok := got.(output.TemperatureOutput)
		return ok && g.Unit == w.Unit && math.Abs(g.Value-w.Value) < eps
	case output.TimeOutput:
		g, ok := got.(output.TimeOutput)
		return ok && g.Moment.Equal(w.Moment) && g.Grain == w.Grain && g.Precision == w.Precision
	case output.TimeIntervalOutput:
		g, ok := got.(output.TimeIntervalOutput)
		return ok && g.From.Equal(w.From) && g.To.Equal(w.To) && g.Grain == w.Grain
	}
	return got == want
}
