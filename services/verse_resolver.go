// services/verse_resolver.go - Reference string -> verses from the local store
package services

import (
	"biblenotes/bibleref"
	"biblenotes/models"
	"context"
	"fmt"
	"strings"
)

// VerseResult is the outcome of a lookup. An empty Verses slice means the
// passage is not in the seeded data; it is not an error.
type VerseResult struct {
	FormattedReference string         `json:"formatted_reference"`
	Verses             []models.Verse `json:"verses"`
}

// VerseResolver resolves user-typed references against a VerseStore.
// It holds no mutable state and is safe for concurrent use.
type VerseResolver struct {
	store VerseStore
}

func NewVerseResolver(store VerseStore) *VerseResolver {
	return &VerseResolver{store: store}
}

// GetVersesFromDB parses reference and returns the requested range, clamped to
// the verses that exist in the chapter. Only malformed input or an unknown book
// produce an error.
func (r *VerseResolver) GetVersesFromDB(ctx context.Context, reference string) (VerseResult, error) {
	ref, err := bibleref.ParseReference(reference)
	if err != nil {
		verseLookups.WithLabelValues("range", "bad_reference").Inc()
		return VerseResult{}, err
	}

	result, err := r.Resolve(ctx, ref)
	if err != nil {
		verseLookups.WithLabelValues("range", "error").Inc()
		return VerseResult{}, err
	}

	verseLookups.WithLabelValues("range", outcome(result)).Inc()
	return result, nil
}

// Resolve looks up an already parsed reference.
func (r *VerseResolver) Resolve(ctx context.Context, ref bibleref.Reference) (VerseResult, error) {
	// The whole chapter is always fetched: its last verse bounds the clamp.
	chapter, err := r.store.QueryByBookChapter(ctx, ref.Book, ref.Chapter)
	if err != nil {
		return VerseResult{}, err
	}

	if len(chapter) == 0 {
		return VerseResult{
			FormattedReference: fmt.Sprintf("%s %d", ref.Book, ref.Chapter),
			Verses:             []models.Verse{},
		}, nil
	}

	maxVerse := 0
	for _, v := range chapter {
		if v.Verse > maxVerse {
			maxVerse = v.Verse
		}
	}

	if !ref.HasVerse() {
		return VerseResult{
			FormattedReference: fmt.Sprintf("%s %d:1-%d", ref.Book, ref.Chapter, maxVerse),
			Verses:             trimVerses(chapter),
		}, nil
	}

	endVerse := ref.EndVerse
	if endVerse < ref.Verse {
		endVerse = ref.Verse
	}
	startVerse := min(ref.Verse, maxVerse)
	endVerse = min(endVerse, maxVerse)

	selected := make([]models.Verse, 0, endVerse-startVerse+1)
	for _, v := range chapter {
		if v.Verse >= startVerse && v.Verse <= endVerse {
			selected = append(selected, v)
		}
	}

	formatted := fmt.Sprintf("%s %d:%d", ref.Book, ref.Chapter, startVerse)
	if endVerse != startVerse {
		formatted += fmt.Sprintf("-%d", endVerse)
	}

	return VerseResult{
		FormattedReference: formatted,
		Verses:             trimVerses(selected),
	}, nil
}

// GetVerseFromDB returns exactly one verse: the one named, or verse 1 when the
// reference names only a chapter.
func (r *VerseResolver) GetVerseFromDB(ctx context.Context, reference string) (VerseResult, error) {
	ref, err := bibleref.ParseReference(reference)
	if err != nil {
		verseLookups.WithLabelValues("single", "bad_reference").Inc()
		return VerseResult{}, err
	}

	verse := ref.Verse
	if !ref.HasVerse() {
		verse = 1
	}

	found, err := r.store.QueryByBookChapterVerse(ctx, ref.Book, ref.Chapter, verse)
	if err != nil {
		verseLookups.WithLabelValues("single", "error").Inc()
		return VerseResult{}, err
	}

	if found == nil {
		verseLookups.WithLabelValues("single", "empty").Inc()
		formatted := fmt.Sprintf("%s %d", ref.Book, ref.Chapter)
		if ref.HasVerse() {
			formatted = bibleref.FormatVerse(ref.Book, ref.Chapter, ref.Verse)
		}
		return VerseResult{FormattedReference: formatted, Verses: []models.Verse{}}, nil
	}

	verseLookups.WithLabelValues("single", "found").Inc()
	return VerseResult{
		FormattedReference: bibleref.FormatVerse(ref.Book, ref.Chapter, verse),
		Verses:             trimVerses([]models.Verse{*found}),
	}, nil
}

func trimVerses(in []models.Verse) []models.Verse {
	out := make([]models.Verse, len(in))
	for i, v := range in {
		v.Text = strings.TrimSpace(v.Text)
		out[i] = v
	}
	return out
}

func outcome(result VerseResult) string {
	if len(result.Verses) == 0 {
		return "empty"
	}
	return "found"
}
