// bibleref/parser.go - Free-text Bible reference parsing
package bibleref

import (
	"regexp"
	"strconv"
	"strings"
)

// grammar is one accepted reference shape. Grammars are tried in order and
// the first one that matches the whole input wins.
type grammar struct {
	name    string
	pattern *regexp.Regexp
}

// bookToken allows an optional leading numeral (with or without a space) and
// multi-word names such as "Song of Solomon".
const bookToken = `(?P<book>(?:\d ?)?[a-z][a-z.']*(?: [a-z][a-z.']*)*)`

var grammars = []grammar{
	{
		name:    "chapter-verse",
		pattern: regexp.MustCompile(`(?i)^` + bookToken + ` ?(?P<chapter>\d+) ?[:.] ?(?P<verse>\d+)(?: ?- ?(?P<end>\d+))?$`),
	},
	{
		// A space before the chapter is required; glued input is left to compact-chapter.
		name:    "chapter",
		pattern: regexp.MustCompile(`(?i)^` + bookToken + ` (?P<chapter>\d+)$`),
	},
	{
		name:    "compact-chapter",
		pattern: regexp.MustCompile(`(?i)^(?P<book>\d?[a-z]+)(?P<chapter>\d+)$`),
	},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeInput folds typographic spaces and dashes and collapses whitespace.
func normalizeInput(s string) string {
	s = strings.ReplaceAll(s, "\u202F", " ")
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = strings.ReplaceAll(s, "\u2013", "-")
	s = strings.ReplaceAll(s, "\u2014", "-")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ParseReference turns user input such as "John 3:16-18", "1 Cor 13" or
// "1John1" into a Reference with a canonical book name.
//
// Errors from book resolution are returned unchanged (*UnknownBookError).
// Input that fits no grammar yields *InvalidReferenceFormatError.
func ParseReference(input string) (Reference, error) {
	cleaned := normalizeInput(input)
	if cleaned == "" {
		return Reference{}, &InvalidReferenceFormatError{Input: input}
	}

	g, m, ok := matchGrammar(cleaned)
	if !ok {
		return Reference{}, &InvalidReferenceFormatError{Input: input}
	}
	return g.build(input, m)
}

// matchGrammar returns the first grammar matching the whole of cleaned.
func matchGrammar(cleaned string) (grammar, []string, bool) {
	for _, g := range grammars {
		if m := g.pattern.FindStringSubmatch(cleaned); m != nil {
			return g, m, true
		}
	}
	return grammar{}, nil, false
}

func (g grammar) group(m []string, name string) string {
	i := g.pattern.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

func (g grammar) build(input string, m []string) (Reference, error) {
	var ref Reference
	var ok bool

	if ref.Chapter, ok = positiveInt(g.group(m, "chapter")); !ok {
		return Reference{}, &InvalidReferenceFormatError{Input: input}
	}

	if v := g.group(m, "verse"); v != "" {
		if ref.Verse, ok = positiveInt(v); !ok {
			return Reference{}, &InvalidReferenceFormatError{Input: input}
		}
		ref.EndVerse = ref.Verse
		if e := g.group(m, "end"); e != "" {
			if ref.EndVerse, ok = positiveInt(e); !ok || ref.EndVerse < ref.Verse {
				return Reference{}, &InvalidReferenceFormatError{Input: input}
			}
		}
	}

	book, err := ResolveBook(g.group(m, "book"))
	if err != nil {
		return Reference{}, err
	}
	ref.Book = book

	return ref, nil
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
