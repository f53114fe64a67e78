package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Range is a half-open byte offset span [Start, End) in text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange creates a new Range
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Len returns the length of the range
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range is empty
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Slice extracts the text covered by this range
func (r Range) Slice(text string) string {
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return ""
	}
	return text[r.Start:r.End]
}

// Contains checks if this range contains another
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && r.End >= other.End
}

// StrictlyContains is Contains without equality.
func (r Range) StrictlyContains(other Range) bool {
	return r.Contains(other) && r != other
}

// Overlaps checks if ranges overlap
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// CharRange converts a byte range of text into a rune range.
func CharRange(text string, r Range) Range {
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return Range{}
	}
	start := utf8.RuneCountInString(text[:r.Start])
	return Range{Start: start, End: start + utf8.RuneCountInString(text[r.Start:r.End])}
}

// Trimmed returns the range of text without leading and trailing whitespace.
func Trimmed(text string) Range {
	start := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	end := len(strings.TrimRightFunc(text, unicode.IsSpace))
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// ============================================================================
// Boundaries
// ============================================================================

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// onBoundary reports whether [start, end) does not cut a word in two: the
// rune before start and the rune at start are not both word runes, and the
// same holds at end.
func onBoundary(text string, start, end int) bool {
	if start > 0 && start < len(text) {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:])
		if isWordRune(before) && isWordRune(first) {
			return false
		}
	}
	if end > 0 && end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[:end])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(last) && isWordRune(after) {
			return false
		}
	}
	return true
}

// skipSpace returns the first offset at or after i that is not whitespace.
func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// tokenStarts lists the offsets where a match may begin.
func tokenStarts(text string) []int {
	var starts []int
	prev := rune(-1)
	for i, r := range text {
		if !unicode.IsSpace(r) && (prev < 0 || !isWordRune(prev) || !isWordRune(r)) {
			starts = append(starts, i)
		}
		prev = r
	}
	return starts
}
