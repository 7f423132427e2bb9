// Package blank decides whether a note counts as blank: nothing written after
// its title line, or an untouched copy of the configured journal template.
package blank

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Summary describes the shape of a note's content.
type Summary struct {
	Title         string
	ContentLength int
	NonBlankLines int
}

// Inspect derives the title, body length and non-blank line count of content.
// Empty content has no lines, so its title falls back to fallbackTitle.
func Inspect(content, fallbackTitle string) Summary {
	if content == "" {
		return Summary{Title: fallbackTitle}
	}

	lines := strings.Split(content, "\n")
	body := lines[1:]

	nonBlank := 0
	for _, line := range body {
		if trim(line) != "" {
			nonBlank++
		}
	}

	return Summary{
		Title:         trim(lines[0]),
		ContentLength: utf8.RuneCountInString(trim(strings.Join(body, "\n"))),
		NonBlankLines: nonBlank,
	}
}

// isSpace treats a byte order mark as whitespace, as editors that save one
// leave it at the start of otherwise untouched notes.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Normalize collapses every run of whitespace, newlines included, into a
// single space and trims both ends.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		if isSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

// MatchesTemplate reports whether content is the template with nothing filled
// in. An empty or whitespace-only template never matches.
func MatchesTemplate(content, template string) bool {
	if trim(template) == "" {
		return false
	}
	return Normalize(content) == Normalize(template)
}

// Blank reports whether a note with the given summary and content is blank.
func (s Summary) Blank(content, template string) bool {
	return s.ContentLength == 0 || s.NonBlankLines == 0 || MatchesTemplate(content, template)
}

// IsBlank reports whether content counts as a blank note under template.
func IsBlank(content, template string) bool {
	return Inspect(content, "").Blank(content, template)
}

// Classify inspects content and reports whether it is blank in one pass.
func Classify(content, template, fallbackTitle string) (Summary, bool) {
	s := Inspect(content, fallbackTitle)
	return s, s.Blank(content, template)
}
