package grammar

import (
	"errors"
	"sync"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/rules"
)

func newFS(t *testing.T) *mem.FS {
	t.Helper()
	fs, err := mem.NewFS()
	require.NoError(t, err)
	return fs
}

func TestLookup(t *testing.T) {
	r := Default(newFS(t))

	lang, err := r.Lookup(" en ")
	require.NoError(t, err)
	assert.Equal(t, EN, lang)

	_, err = r.Lookup("tlh")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Equal(t, []Lang{EN}, r.Langs())
}

func TestUnknownLanguageIsUniform(t *testing.T) {
	r := Default(newFS(t))
	const xx Lang = "XX"

	_, err := r.Rules(xx)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	_, err = r.ScorerModel(xx)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	_, err = r.Examples(xx)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	_, err = r.FeatureExtractor(xx)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.ErrorIs(t, r.SaveModel(xx, model.New()), ErrUnknownLanguage)
}

func TestRulesCompiledOnce(t *testing.T) {
	r := NewRegistry(newFS(t))
	calls := 0
	r.Register("toy", Resources{
		Rules: func() (*rules.RuleSet, error) {
			calls++
			return rules.NewRuleSet([]rules.Rule{{
				Name:    "one",
				Pattern: []rules.Item{rules.Words("one")},
				Produce: func([]rules.Arg) (dimension.Dimension, error) { return dimension.Integer{Value: 1}, nil },
			}})
		},
		ModelPath: "toy.gob",
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := r.Rules("TOY")
			assert.NoError(t, err)
			assert.Equal(t, 1, rs.NumRules())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestRulesError(t *testing.T) {
	r := NewRegistry(newFS(t))
	boom := errors.New("boom")
	r.Register("bad", Resources{Rules: func() (*rules.RuleSet, error) { return nil, boom }})
	r.Register("none", Resources{})

	_, err := r.Rules("bad")
	assert.ErrorIs(t, err, boom)
	_, err = r.Rules("none")
	assert.Error(t, err)

	ex, err := r.Examples("none")
	require.NoError(t, err)
	assert.Empty(t, ex)

	fx, err := r.FeatureExtractor("none")
	require.NoError(t, err)
	assert.NotNil(t, fx)
}

func TestScorerModel(t *testing.T) {
	fs := newFS(t)
	r := Default(fs)

	_, err := r.ScorerModel(EN)
	assert.ErrorIs(t, err, model.ErrModelNotFound)

	require.NoError(t, hackpadfs.MkdirAll(fs, "models", 0o755))
	require.NoError(t, hackpadfs.WriteFullFile(fs, ModelPath(EN), []byte("not a model"), 0o644))
	_, err = r.ScorerModel(EN)
	assert.ErrorIs(t, err, model.ErrMalformedModel)

	m := model.New()
	m.Classifiers["x"] = &model.Classifier{}
	require.NoError(t, r.SaveModel(EN, m))
	got, err := r.ScorerModel(EN)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Rules())
}

func TestDefaultEnglish(t *testing.T) {
	r := Default(newFS(t))

	rs, err := r.Rules(EN)
	require.NoError(t, err)
	assert.Positive(t, rs.NumRules())

	ex, err := r.Examples(EN)
	require.NoError(t, err)
	assert.NotEmpty(t, ex)

	assert.Equal(t, "en.gob", ModelPath(EN))
}
