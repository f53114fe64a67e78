package rules

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// lexicon compiles every word item of a rule set into one Aho-Corasick
// automaton. Several items may share a surface form ("second" is both an
// ordinal and a duration unit), so a pattern maps to a list of item ids.
type lexicon struct {
	ac ahocorasick.AhoCorasick

	// Pattern index -> item ids
	patternToItems [][]int

	// Normalized pattern -> pattern index
	patternIndex map[string]int

	patterns []string
}

func newLexicon() *lexicon {
	return &lexicon{patternIndex: make(map[string]int)}
}

// normalizeWord lowercases a surface form and folds the curly apostrophe.
func normalizeWord(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "’", "'")
}

func (l *lexicon) add(word string, item int) {
	key := normalizeWord(word)
	if key == "" {
		return
	}
	if idx, ok := l.patternIndex[key]; ok {
		l.patternToItems[idx] = appendUnique(l.patternToItems[idx], item)
		return
	}
	l.patternIndex[key] = len(l.patterns)
	l.patterns = append(l.patterns, key)
	l.patternToItems = append(l.patternToItems, []int{item})
}

func (l *lexicon) build() {
	if len(l.patterns) == 0 {
		return
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	l.ac = builder.Build(l.patterns)
}

func (l *lexicon) size() int {
	return len(l.patterns)
}

// scan finds every lexicon word in text that sits on word boundaries and
// reports it to emit once per item sharing the pattern.
func (l *lexicon) scan(text string, emit func(item int, r Range)) {
	if len(l.patterns) == 0 || text == "" {
		return
	}
	for _, m := range l.ac.FindAll(text) {
		if !onBoundary(text, m.Start(), m.End()) {
			continue
		}
		for _, item := range l.patternToItems[m.Pattern()] {
			emit(item, Range{Start: m.Start(), End: m.End()})
		}
	}
}

func appendUnique(slice []int, v int) []int {
	for _, s := range slice {
		if s == v {
			return slice
		}
	}
	return append(slice, v)
}
