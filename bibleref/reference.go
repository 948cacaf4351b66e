package bibleref

import (
	"strconv"
	"strings"
)

// Reference is a parsed book/chapter/verse-range triple.
// Verse and EndVerse are zero for whole-chapter references.
type Reference struct {
	Book     string `json:"book"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse,omitempty"`
	EndVerse int    `json:"end_verse,omitempty"`
}

// HasVerse reports whether a verse (or range) was given.
func (r Reference) HasVerse() bool {
	return r.Verse > 0
}

// IsRange reports whether the reference spans more than one verse.
func (r Reference) IsRange() bool {
	return r.Verse > 0 && r.EndVerse > r.Verse
}

// String renders the reference in display form, e.g. "John 3:16-18".
func (r Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(r.Chapter))
	if r.Verse > 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(r.Verse))
		if r.EndVerse > r.Verse {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(r.EndVerse))
		}
	}
	return sb.String()
}

// FormatVerse renders a single verse label such as "John 3:16".
func FormatVerse(book string, chapter, verse int) string {
	return Reference{Book: book, Chapter: chapter, Verse: verse, EndVerse: verse}.String()
}
