package services

import (
	"biblenotes/models"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedBatchSize = 500

// VerseStore is the persistent (book, chapter, verse) -> text table.
type VerseStore interface {
	// QueryByBookChapter returns every verse of a chapter ordered by verse number.
	QueryByBookChapter(ctx context.Context, book string, chapter int) ([]models.Verse, error)
	// QueryByBookChapterVerse returns nil, nil when the verse does not exist.
	QueryByBookChapterVerse(ctx context.Context, book string, chapter, verse int) (*models.Verse, error)
	// BulkSeed inserts records, skipping duplicates, and returns how many were inserted.
	BulkSeed(ctx context.Context, records []models.Verse) (int, error)
	Count(ctx context.Context) (int64, error)
}

// GormVerseStore implements VerseStore on the verses table.
type GormVerseStore struct {
	db *gorm.DB
}

func NewVerseStore(db *gorm.DB) *GormVerseStore {
	return &GormVerseStore{db: db}
}

func (s *GormVerseStore) QueryByBookChapter(ctx context.Context, book string, chapter int) ([]models.Verse, error) {
	var verses []models.Verse
	err := s.db.WithContext(ctx).
		Where("book = ? AND chapter = ?", book, chapter).
		Order("verse ASC").
		Find(&verses).Error
	if err != nil {
		return nil, fmt.Errorf("query %s %d: %w", book, chapter, err)
	}
	return verses, nil
}

func (s *GormVerseStore) QueryByBookChapterVerse(ctx context.Context, book string, chapter, verse int) (*models.Verse, error) {
	var v models.Verse
	err := s.db.WithContext(ctx).
		Where("book = ? AND chapter = ? AND verse = ?", book, chapter, verse).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query %s %d:%d: %w", book, chapter, verse, err)
	}
	return &v, nil
}

// BulkSeed inserts in batches with ON CONFLICT DO NOTHING. Duplicate keys are
// counted and logged, not fatal. A failing batch does not stop later batches;
// its error is returned alongside the inserted count.
func (s *GormVerseStore) BulkSeed(ctx context.Context, records []models.Verse) (int, error) {
	inserted := 0
	var errs []error

	for start := 0; start < len(records); start += seedBatchSize {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		end := start + seedBatchSize
		if end > len(records) {
			end = len(records)
		}

		batch := make([]models.Verse, end-start)
		copy(batch, records[start:end])

		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&batch)
		if result.Error != nil {
			log.Printf("Error inserting verses %d-%d: %v", start+1, end, result.Error)
			errs = append(errs, fmt.Errorf("batch %d-%d: %w", start+1, end, result.Error))
			continue
		}

		inserted += int(result.RowsAffected)
		if skipped := len(batch) - int(result.RowsAffected); skipped > 0 {
			log.Printf("WARN verses %d-%d: %d duplicate keys skipped", start+1, end, skipped)
		}
	}

	return inserted, errors.Join(errs...)
}

func (s *GormVerseStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Verse{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
