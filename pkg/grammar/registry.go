// Package grammar is the language registry: for every supported language it
// knows how to build the rule set, where the trained scorer model lives and
// which example corpus trains it.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"

	"github.com/kittclouds/ontokit/pkg/grammar/en"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// ErrUnknownLanguage is returned for a language that was never registered.
var ErrUnknownLanguage = errors.New("grammar: unknown language")

// Lang is a normalised, upper-case language identifier.
type Lang string

const EN Lang = "EN"

// ParseLang normalises a language name without checking registration.
func ParseLang(s string) Lang {
	return Lang(strings.ToUpper(strings.TrimSpace(s)))
}

// Resources builds what a language needs. ModelPath is relative to the
// registry filesystem.
type Resources struct {
	Rules     func() (*rules.RuleSet, error)
	Examples  func() ([]model.Example, error)
	Features  model.FeatureExtractor
	ModelPath string
}

type entry struct {
	res Resources

	once  sync.Once
	rules *rules.RuleSet
	err   error
}

// Registry maps languages to their resources. Rule sets are compiled once
// per language on first use. It is safe for concurrent use.
type Registry struct {
	fs hackpadfs.FS

	mu    sync.RWMutex
	langs map[Lang]*entry
}

// NewRegistry returns an empty registry reading model blobs from fs.
func NewRegistry(fs hackpadfs.FS) *Registry {
	return &Registry{fs: fs, langs: make(map[Lang]*entry)}
}

// Default returns a registry with every built-in language.
func Default(fs hackpadfs.FS) *Registry {
	r := NewRegistry(fs)
	r.Register(EN, Resources{
		Rules:     func() (*rules.RuleSet, error) { return en.RuleSet() },
		Examples:  en.Examples,
		Features:  en.Features,
		ModelPath: ModelPath(EN),
	})
	return r
}

// ModelPath is the conventional blob name of a language's model.
func ModelPath(lang Lang) string {
	return strings.ToLower(string(lang)) + ".gob"
}

// FS returns the filesystem model blobs are read from.
func (r *Registry) FS() hackpadfs.FS {
	return r.fs
}

// Register adds or replaces a language.
func (r *Registry) Register(lang Lang, res Resources) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.langs[ParseLang(string(lang))] = &entry{res: res}
}

// Lookup resolves a language name, case-insensitive.
func (r *Registry) Lookup(name string) (Lang, error) {
	lang := ParseLang(name)
	if _, err := r.entry(lang); err != nil {
		return "", err
	}
	return lang, nil
}

// Langs returns the registered languages, sorted.
func (r *Registry) Langs() []Lang {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Lang, 0, len(r.langs))
	for l := range r.langs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) entry(lang Lang) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.langs[ParseLang(string(lang))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, string(lang))
	}
	return e, nil
}

// Rules returns the compiled rule set of lang.
func (r *Registry) Rules(lang Lang) (*rules.RuleSet, error) {
	e, err := r.entry(lang)
	if err != nil {
		return nil, err
	}
	e.once.Do(func() {
		if e.res.Rules == nil {
			e.err = fmt.Errorf("grammar: %s has no rules", lang)
			return
		}
		e.rules, e.err = e.res.Rules()
	})
	return e.rules, e.err
}

// ScorerModel loads the persisted model of lang.
func (r *Registry) ScorerModel(lang Lang) (*model.Model, error) {
	e, err := r.entry(lang)
	if err != nil {
		return nil, err
	}
	m, err := model.Load(r.fs, e.res.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("grammar: %s model: %w", lang, err)
	}
	return m, nil
}

// SaveModel persists m as the model of lang.
func (r *Registry) SaveModel(lang Lang, m *model.Model) error {
	e, err := r.entry(lang)
	if err != nil {
		return err
	}
	return model.Save(r.fs, e.res.ModelPath, m)
}

// Examples returns the training corpus of lang.
func (r *Registry) Examples(lang Lang) ([]model.Example, error) {
	e, err := r.entry(lang)
	if err != nil {
		return nil, err
	}
	if e.res.Examples == nil {
		return nil, nil
	}
	return e.res.Examples()
}

// FeatureExtractor returns the feature extractor of lang.
func (r *Registry) FeatureExtractor(lang Lang) (model.FeatureExtractor, error) {
	e, err := r.entry(lang)
	if err != nil {
		return nil, err
	}
	if e.res.Features == nil {
		return model.FeatureFunc(func(n *rules.Node) []string { return []string{n.Rule} }), nil
	}
	return e.res.Features, nil
}
