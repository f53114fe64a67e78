package en

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/resolver"
	"github.com/kittclouds/ontokit/pkg/rules"
)

func ruleSet(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := RuleSet()
	require.NoError(t, err)
	return rs
}

// whole returns the values of every node spanning the trimmed text.
func whole(t *testing.T, rs *rules.RuleSet, text string) []dimension.Dimension {
	t.Helper()
	nodes, err := rs.Apply(text)
	require.NoError(t, err)
	span := rules.Trimmed(text)
	var out []dimension.Dimension
	for _, n := range nodes {
		if n.Range == span {
			out = append(out, n.Value)
		}
	}
	return out
}

func TestRuleSetCompiles(t *testing.T) {
	rs := ruleSet(t)
	assert.Equal(t, len(Rules()), rs.NumRules())
	assert.Greater(t, rs.NumTextPatterns(), 100)
}

func TestNumbers(t *testing.T) {
	rs := ruleSet(t)
	tests := []struct {
		text string
		want int64
	}{
		{"twenty-one", 21},
		{"twenty one", 21},
		{"three hundred and five", 305},
		{"one million five hundred twenty-one thousand eighty-two", 1521082},
		{"2 dozen", 24},
		{"1,000,000", 1000000},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var got []int64
			for _, v := range whole(t, rs, tt.text) {
				if n, ok := v.(dimension.Integer); ok {
					got = append(got, n.Value)
				}
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestNumberSumRejectsOverlappingGrains(t *testing.T) {
	rs := ruleSet(t)
	for _, v := range whole(t, rs, "twenty twenty") {
		n, ok := v.(dimension.Integer)
		if ok {
			assert.NotEqual(t, int64(40), n.Value)
		}
	}
}

func TestOrdinals(t *testing.T) {
	rs := ruleSet(t)
	assert.Contains(t, whole(t, rs, "twenty-first"), dimension.Ordinal{Value: 21})
	assert.Contains(t, whole(t, rs, "112th"), dimension.Ordinal{Value: 112})
}

func TestDurations(t *testing.T) {
	rs := ruleSet(t)
	got := whole(t, rs, "about 2 hours and 30 minutes")
	want := dimension.Duration{
		Period:    moment.PeriodOf(moment.GrainHour, 2).Plus(moment.PeriodOf(moment.GrainMinute, 30)),
		Precision: dimension.Approximate,
	}
	assert.Contains(t, got, want)
}

func TestMoney(t *testing.T) {
	rs := ruleSet(t)
	usd := func(v float64) dimension.AmountOfMoney { return dimension.AmountOfMoney{Value: v, Unit: "USD"} }
	tests := []struct {
		text string
		want dimension.AmountOfMoney
	}{
		// <unit> <amount>
		{"$10", usd(10)},
		{"$5", usd(5)},
		{"usd 10", usd(10)},
		{"US$ 7", usd(7)},
		{"€5", dimension.AmountOfMoney{Value: 5, Unit: "EUR"}},
		{"€3.5", dimension.AmountOfMoney{Value: 3.5, Unit: "EUR"}},
		{"£20", dimension.AmountOfMoney{Value: 20, Unit: "GBP"}},
		{"¥300", dimension.AmountOfMoney{Value: 300, Unit: "JPY"}},
		// <amount> <unit>
		{"10 dollars", usd(10)},
		{"ten dollars", usd(10)},
		{"10 usd", usd(10)},
		{"twenty quid", dimension.AmountOfMoney{Value: 20, Unit: "GBP"}},
		{"25 cents", usd(0.25)},
		// <amount> and <cents>
		{"$5 and 25 cents", usd(5.25)},
		// about <amount-of-money>
		{"about $20", dimension.AmountOfMoney{Value: 20, Unit: "USD", Precision: dimension.Approximate}},
		{"around 20 dollars", dimension.AmountOfMoney{Value: 20, Unit: "USD", Precision: dimension.Approximate}},
	}
	ctx := resolver.DefaultContext()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var got []dimension.AmountOfMoney
			for _, v := range whole(t, rs, tt.text) {
				if m, ok := v.(dimension.AmountOfMoney); ok {
					got = append(got, m)
				}
			}
			require.Contains(t, got, tt.want)

			out, err := resolver.Resolve(output.AmountOfMoney, tt.want, ctx)
			require.NoError(t, err)
			assert.Equal(t, output.AmountOfMoneyOutput{Value: tt.want.Value, Unit: tt.want.Unit, Precision: tt.want.Precision}, out)
		})
	}
}

func TestMoneyNeedsAmount(t *testing.T) {
	rs := ruleSet(t)
	for _, text := range []string{"$", "dollars", "usd"} {
		for _, v := range whole(t, rs, text) {
			_, isMoney := v.(dimension.AmountOfMoney)
			assert.False(t, isMoney, "%q", text)
		}
	}
}

func TestTimeForms(t *testing.T) {
	rs := ruleSet(t)

	got := whole(t, rs, "next friday")
	assert.Contains(t, got, dimension.Time{
		Form: dimension.FormDayOfWeek, Weekday: 5, HasWeekday: true, Direction: dimension.DirNext,
	})

	got = whole(t, rs, "may 12")
	assert.Contains(t, got, dimension.Time{Form: dimension.FormDate, Month: 5, Day: 12})

	got = whole(t, rs, "5pm")
	require.NotEmpty(t, got)
	tm := got[0].(dimension.Time)
	require.NotNil(t, tm.Clock)
	assert.Equal(t, 17, tm.Clock.Hour)
	assert.False(t, tm.Clock.Ambiguous)
}

func TestLatentClock(t *testing.T) {
	rs := ruleSet(t)
	var latent bool
	for _, v := range whole(t, rs, "7") {
		if tm, ok := v.(dimension.Time); ok {
			latent = tm.IsLatent
		}
	}
	assert.True(t, latent, "a bare hour is a latent time of day")
}

func TestFeatures(t *testing.T) {
	leaf := rules.NewNode(0, "integer (numeric)", rules.NewRange(0, 1), nil, dimension.Integer{Value: 3})
	assert.Equal(t, []string{"rule:integer (numeric)"}, Features.Features(leaf))

	day := rules.NewNode(1, "named-day", rules.NewRange(0, 6), nil, dimension.Time{Form: dimension.FormDayOfWeek, HasWeekday: true})
	clock := rules.NewNode(2, "hh:mm", rules.NewRange(7, 12), nil, dimension.Time{Form: dimension.FormTimeOfDay, Clock: &dimension.Clock{Hour: 3, Precise: true}})
	parent := rules.NewNode(3, "<day> <time-of-day>", rules.NewRange(0, 12), []*rules.Node{day, clock}, dimension.Time{})
	assert.Equal(t, []string{"rules:named-day+hh:mm", "grains:day+minute"}, Features.Features(parent))
}

func TestCorpus(t *testing.T) {
	c, err := DefaultCorpus()
	require.NoError(t, err)
	assert.Equal(t, 2013, c.Reference.Year())
	assert.NotEmpty(t, c.Examples)

	for _, ex := range c.Examples {
		require.NotEmpty(t, ex.Text)
		require.NotNil(t, ex.Check)
	}
}

func TestParseCorpusErrors(t *testing.T) {
	_, err := ParseCorpus([]byte("reference: yesterday\n"))
	assert.Error(t, err)

	_, err = ParseCorpus([]byte("reference: \"2013-02-12T04:30:00Z\"\nexamples:\n  - kind: colour\n    texts: [red]\n"))
	assert.Error(t, err)

	_, err = ParseCorpus([]byte("reference: \"2013-02-12T04:30:00Z\"\nexamples:\n  - kind: number\n    texts: [one]\n"))
	assert.Error(t, err, "a number needs a value")
}

func TestCorpusIsLearnable(t *testing.T) {
	rs := ruleSet(t)
	examples, err := Examples()
	require.NoError(t, err)

	m, stats, err := model.Train(rs, examples, Features)
	require.NoError(t, err)
	assert.Empty(t, stats.Unmatched)
	assert.Equal(t, len(examples), stats.Examples)
	assert.Positive(t, stats.Positive)
	assert.NotEmpty(t, m.Rules())
}
