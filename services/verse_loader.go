package services

import (
	"biblenotes/bibleref"
	"biblenotes/models"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// TranslationBook is one book of a translation dataset:
//
//	[{"book": "Genesis", "chapters": [{"chapter": 1, "verses": [{"verse": 1, "text": "..."}]}]}]
type TranslationBook struct {
	Book     string               `json:"book"`
	Chapters []TranslationChapter `json:"chapters"`
}

type TranslationChapter struct {
	Chapter int                `json:"chapter"`
	Verses  []TranslationVerse `json:"verses"`
}

type TranslationVerse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// rawBook accepts both dataset layouts. The compact layout keys books by a
// short abbreviation and stores chapters as arrays of verse strings:
//
//	[{"abbrev": "gn", "chapters": [["In the beginning...", "..."]]}]
type rawBook struct {
	Book     string          `json:"book"`
	Abbrev   string          `json:"abbrev"`
	Chapters json.RawMessage `json:"chapters"`
}

// ParseTranslation decodes a translation dataset in either layout.
func ParseTranslation(r io.Reader) ([]TranslationBook, error) {
	var raw []rawBook
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse translation JSON: %w", err)
	}

	books := make([]TranslationBook, 0, len(raw))
	for i, rb := range raw {
		if rb.Book == "" && rb.Abbrev != "" {
			book, err := convertAbbrevBook(rb)
			if err != nil {
				return nil, fmt.Errorf("book %d (%s): %w", i, rb.Abbrev, err)
			}
			books = append(books, book)
			continue
		}

		book := TranslationBook{Book: rb.Book}
		if len(rb.Chapters) > 0 {
			if err := json.Unmarshal(rb.Chapters, &book.Chapters); err != nil {
				return nil, fmt.Errorf("book %d (%s): %w", i, rb.Book, err)
			}
		}
		books = append(books, book)
	}
	return books, nil
}

// LoadTranslationFile reads and decodes a translation dataset from disk.
func LoadTranslationFile(path string) ([]TranslationBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open translation file: %w", err)
	}
	defer f.Close()

	return ParseTranslation(f)
}

// FlattenTranslation converts a dataset into verse records. Book names are
// canonicalised so lookups match; books that cannot be resolved are skipped
// with a warning, as are verses with empty text or non-positive numbers.
func FlattenTranslation(books []TranslationBook) []models.Verse {
	var verses []models.Verse

	for _, book := range books {
		name, err := bibleref.ResolveBook(book.Book)
		if err != nil {
			log.Printf("WARN skipping book %q: %v", book.Book, err)
			continue
		}

		for _, chapter := range book.Chapters {
			if chapter.Chapter < 1 {
				log.Printf("WARN skipping %s chapter %d: invalid chapter number", name, chapter.Chapter)
				continue
			}
			for _, v := range chapter.Verses {
				text := strings.TrimSpace(v.Text)
				if v.Verse < 1 || text == "" {
					continue
				}
				verses = append(verses, models.Verse{
					Book:    name,
					Chapter: chapter.Chapter,
					Verse:   v.Verse,
					Text:    text,
				})
			}
		}
	}

	return verses
}

// SeedVerses populates an empty store. A store that already holds verses is
// left untouched, so running it again is a no-op. It returns the number of
// records inserted.
func SeedVerses(ctx context.Context, store VerseStore, books []TranslationBook) (int, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	if count > 0 {
		log.Printf("Verse store already contains %d verses. Skipping initialization.", count)
		return 0, nil
	}

	verses := FlattenTranslation(books)
	if len(verses) == 0 {
		log.Println("No verses to add")
		return 0, nil
	}

	log.Printf("📖 Verse store is empty. Seeding %d verses...", len(verses))
	inserted, err := store.BulkSeed(ctx, verses)
	versesSeeded.Add(float64(inserted))
	if failed := len(verses) - inserted; failed > 0 {
		log.Printf("WARN some verses were not added: %d failures", failed)
	}
	if err != nil {
		return inserted, fmt.Errorf("seed verses: %w", err)
	}

	log.Printf("✅ Successfully added %d verses", inserted)
	return inserted, nil
}

// SeedVersesFromFile is SeedVerses fed from a dataset on disk. The file is
// only read when the store is empty.
func SeedVersesFromFile(ctx context.Context, store VerseStore, path string) (int, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	if count > 0 {
		log.Printf("Verse store already contains %d verses. Skipping %s.", count, path)
		return 0, nil
	}

	books, err := LoadTranslationFile(path)
	if err != nil {
		return 0, err
	}
	return SeedVerses(ctx, store, books)
}
