package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// abbrevBookNames maps the compact dataset's book keys to canonical names.
// The keys are not parser aliases ("jo" is Jonah here), so they are looked
// up directly rather than through bibleref.
var abbrevBookNames = map[string]string{
	"gn": "Genesis", "ex": "Exodus", "lv": "Leviticus", "nm": "Numbers", "dt": "Deuteronomy",
	"js": "Joshua", "jud": "Judges", "rt": "Ruth", "1sm": "1 Samuel", "2sm": "2 Samuel",
	"1kgs": "1 Kings", "2kgs": "2 Kings", "1ch": "1 Chronicles", "2ch": "2 Chronicles",
	"ezr": "Ezra", "ne": "Nehemiah", "et": "Esther", "job": "Job", "ps": "Psalms", "prv": "Proverbs",
	"ec": "Ecclesiastes", "so": "Song of Solomon", "is": "Isaiah", "jr": "Jeremiah",
	"lm": "Lamentations", "ez": "Ezekiel", "dn": "Daniel", "ho": "Hosea", "jl": "Joel",
	"am": "Amos", "ob": "Obadiah", "jo": "Jonah", "mi": "Micah", "na": "Nahum", "hk": "Habakkuk",
	"zp": "Zephaniah", "hg": "Haggai", "zc": "Zechariah", "ml": "Malachi",
	"mt": "Matthew", "mk": "Mark", "lk": "Luke", "jn": "John", "act": "Acts", "rm": "Romans",
	"1co": "1 Corinthians", "2co": "2 Corinthians", "gl": "Galatians", "eph": "Ephesians",
	"ph": "Philippians", "cl": "Colossians", "1ts": "1 Thessalonians", "2ts": "2 Thessalonians",
	"1tm": "1 Timothy", "2tm": "2 Timothy", "tt": "Titus", "phm": "Philemon", "hb": "Hebrews",
	"jm": "James", "1pe": "1 Peter", "2pe": "2 Peter", "1jo": "1 John", "2jo": "2 John",
	"3jo": "3 John", "jd": "Jude", "re": "Revelation",
}

// convertAbbrevBook numbers chapters and verses from their array positions.
// Unknown abbreviations pass through as the book name and are dropped later
// by FlattenTranslation if they do not resolve.
func convertAbbrevBook(rb rawBook) (TranslationBook, error) {
	var chapters [][]string
	if len(rb.Chapters) > 0 {
		if err := json.Unmarshal(rb.Chapters, &chapters); err != nil {
			return TranslationBook{}, fmt.Errorf("chapters: %w", err)
		}
	}

	name, ok := abbrevBookNames[strings.ToLower(strings.TrimSpace(rb.Abbrev))]
	if !ok {
		name = rb.Abbrev
	}

	book := TranslationBook{Book: name, Chapters: make([]TranslationChapter, 0, len(chapters))}
	for ci, texts := range chapters {
		chapter := TranslationChapter{Chapter: ci + 1, Verses: make([]TranslationVerse, 0, len(texts))}
		for vi, text := range texts {
			chapter.Verses = append(chapter.Verses, TranslationVerse{Verse: vi + 1, Text: text})
		}
		book.Chapters = append(book.Chapters, chapter)
	}
	return book, nil
}
