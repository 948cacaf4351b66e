package services

import (
	"context"
	"fmt"
	"testing"

	"biblenotes/database"
	"biblenotes/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("DB_LOG_LEVEL", "silent")

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// chapterVerses builds verses 1..n of book chapter.
func chapterVerses(book string, chapter, n int) []models.Verse {
	verses := make([]models.Verse, 0, n)
	for v := 1; v <= n; v++ {
		verses = append(verses, models.Verse{
			Book:    book,
			Chapter: chapter,
			Verse:   v,
			Text:    fmt.Sprintf(" %s %d:%d text ", book, chapter, v),
		})
	}
	return verses
}

func seededStore(t *testing.T, db *gorm.DB) *GormVerseStore {
	t.Helper()

	store := NewVerseStore(db)
	var verses []models.Verse
	verses = append(verses, chapterVerses("John", 3, 20)...)
	verses = append(verses, chapterVerses("Genesis", 1, 31)...)
	verses = append(verses, chapterVerses("1 John", 1, 10)...)

	n, err := store.BulkSeed(context.Background(), verses)
	require.NoError(t, err)
	require.Equal(t, len(verses), n)
	return store
}

// fakeStore is an in-memory VerseStore.
type fakeStore struct {
	verses  []models.Verse
	err     error
	queries int
}

func (f *fakeStore) QueryByBookChapter(_ context.Context, book string, chapter int) ([]models.Verse, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Verse
	for _, v := range f.verses {
		if v.Book == book && v.Chapter == chapter {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) QueryByBookChapterVerse(_ context.Context, book string, chapter, verse int) (*models.Verse, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	for _, v := range f.verses {
		if v.Book == book && v.Chapter == chapter && v.Verse == verse {
			found := v
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) BulkSeed(_ context.Context, records []models.Verse) (int, error) {
	f.verses = append(f.verses, records...)
	return len(records), nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	return int64(len(f.verses)), f.err
}
