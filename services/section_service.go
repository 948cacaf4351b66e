// services/section_service.go - Note sections and their annotations
package services

import (
	"biblenotes/bibleref"
	"biblenotes/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ================== SECTIONS ==================

// CreateSectionFromReference resolves reference against the verse store and
// attaches the passage to noteID. The section keeps the normalized reference
// and a snapshot of the verse text.
func (s *NoteService) CreateSectionFromReference(ctx context.Context, userID, noteID uint, reference string) (*models.NoteSection, error) {
	if s.resolver == nil {
		return nil, errors.New("verse resolver not configured")
	}
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	result, err := s.resolver.GetVersesFromDB(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(result.Verses) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPassageNotFound, result.FormattedReference)
	}

	content := make([]models.SectionVerse, 0, len(result.Verses))
	for _, v := range result.Verses {
		content = append(content, models.SectionVerse{
			Book:    v.Book,
			Chapter: v.Chapter,
			Verse:   v.Verse,
			Text:    v.Text,
		})
	}

	return s.insertSection(userID, noteID, result.FormattedReference, content)
}

// CreateSection attaches a passage with caller-supplied content.
func (s *NoteService) CreateSection(userID, noteID uint, reference string, content []models.SectionVerse) (*models.NoteSection, error) {
	ref, err := bibleref.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}
	return s.insertSection(userID, noteID, ref.String(), content)
}

func (s *NoteService) insertSection(userID, noteID uint, reference string, content []models.SectionVerse) (*models.NoteSection, error) {
	if content == nil {
		content = []models.SectionVerse{}
	}
	section := &models.NoteSection{
		NoteID:         noteID,
		BibleReference: reference,
		Content:        content,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(section).Error; err != nil {
			return err
		}
		return touchNote(tx, noteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventSectionCreated, NoteID: noteID, ID: section.ID})
	return section, nil
}

// GetNoteSections lists a note's sections in creation order.
func (s *NoteService) GetNoteSections(userID, noteID uint) ([]models.NoteSection, error) {
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	var sections []models.NoteSection
	if err := s.db.Where("note_id = ?", noteID).Order("id ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *NoteService) GetSection(userID, sectionID uint) (*models.NoteSection, error) {
	return s.ownedSection(s.db, userID, sectionID)
}

// UpdateSection replaces the reference and/or content. A nil argument leaves
// that field unchanged.
func (s *NoteService) UpdateSection(userID, sectionID uint, reference *string, content []models.SectionVerse) (*models.NoteSection, error) {
	section, err := s.ownedSection(s.db, userID, sectionID)
	if err != nil {
		return nil, err
	}

	if reference != nil {
		ref, err := bibleref.ParseReference(*reference)
		if err != nil {
			return nil, err
		}
		section.BibleReference = ref.String()
	}
	if content != nil {
		section.Content = content
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(section).Error; err != nil {
			return err
		}
		return touchNote(tx, section.NoteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventSectionUpdated, NoteID: section.NoteID, ID: section.ID})
	return section, nil
}

// DeleteSection removes a section and its annotations.
func (s *NoteService) DeleteSection(userID, sectionID uint) error {
	var noteID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		section, err := s.ownedSection(tx, userID, sectionID)
		if err != nil {
			return err
		}
		noteID = section.NoteID

		if err := tx.Where("section_id = ?", sectionID).Delete(&models.NoteSectionAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.NoteSection{}, sectionID).Error; err != nil {
			return err
		}
		return touchNote(tx, noteID)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventSectionDeleted, NoteID: noteID, ID: sectionID})
	return nil
}

func (s *NoteService) ownedSection(tx *gorm.DB, userID, sectionID uint) (*models.NoteSection, error) {
	var section models.NoteSection
	if err := tx.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedNote(tx, userID, section.NoteID); err != nil {
		return nil, err
	}
	return &section, nil
}

// ================== ANNOTATIONS ==================

// CreateAnnotation comments on verses of a section. Each label must parse as a
// reference; labels are stored in canonical form.
func (s *NoteService) CreateAnnotation(userID, sectionID uint, content string, verses []string) (*models.NoteSectionAnnotation, error) {
	labels, err := canonicalLabels(verses)
	if err != nil {
		return nil, err
	}

	section, err := s.ownedSection(s.db, userID, sectionID)
	if err != nil {
		return nil, err
	}

	annotation := &models.NoteSectionAnnotation{
		NoteID:    section.NoteID,
		SectionID: section.ID,
		Content:   content,
		Verses:    labels,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(annotation).Error; err != nil {
			return err
		}
		return touchNote(tx, section.NoteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventAnnotationCreated, NoteID: section.NoteID, ID: annotation.ID})
	return annotation, nil
}

func (s *NoteService) GetSectionAnnotations(userID, sectionID uint) ([]models.NoteSectionAnnotation, error) {
	if _, err := s.ownedSection(s.db, userID, sectionID); err != nil {
		return nil, err
	}

	var annotations []models.NoteSectionAnnotation
	if err := s.db.Where("section_id = ?", sectionID).Order("id ASC").Find(&annotations).Error; err != nil {
		return nil, err
	}
	return annotations, nil
}

func (s *NoteService) GetNoteAnnotations(userID, noteID uint) ([]models.NoteSectionAnnotation, error) {
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	var annotations []models.NoteSectionAnnotation
	err := s.db.Where("note_id = ?", noteID).
		Order("section_id ASC").
		Order("id ASC").
		Find(&annotations).Error
	if err != nil {
		return nil, err
	}
	return annotations, nil
}

func (s *NoteService) GetAnnotation(userID, annotationID uint) (*models.NoteSectionAnnotation, error) {
	return s.ownedAnnotation(s.db, userID, annotationID)
}

func (s *NoteService) UpdateAnnotation(userID, annotationID uint, content *string, verses []string) (*models.NoteSectionAnnotation, error) {
	annotation, err := s.ownedAnnotation(s.db, userID, annotationID)
	if err != nil {
		return nil, err
	}

	if content != nil {
		annotation.Content = *content
	}
	if verses != nil {
		labels, err := canonicalLabels(verses)
		if err != nil {
			return nil, err
		}
		annotation.Verses = labels
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(annotation).Error; err != nil {
			return err
		}
		return touchNote(tx, annotation.NoteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventAnnotationUpdated, NoteID: annotation.NoteID, ID: annotation.ID})
	return annotation, nil
}

func (s *NoteService) DeleteAnnotation(userID, annotationID uint) error {
	annotation, err := s.ownedAnnotation(s.db, userID, annotationID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.NoteSectionAnnotation{}, annotationID).Error; err != nil {
			return err
		}
		return touchNote(tx, annotation.NoteID)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventAnnotationDeleted, NoteID: annotation.NoteID, ID: annotationID})
	return nil
}

func (s *NoteService) ownedAnnotation(tx *gorm.DB, userID, annotationID uint) (*models.NoteSectionAnnotation, error) {
	var annotation models.NoteSectionAnnotation
	if err := tx.First(&annotation, annotationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedNote(tx, userID, annotation.NoteID); err != nil {
		return nil, err
	}
	return &annotation, nil
}

func canonicalLabels(verses []string) ([]string, error) {
	labels := make([]string, 0, len(verses))
	for _, label := range verses {
		if strings.TrimSpace(label) == "" {
			continue
		}
		ref, err := bibleref.ParseReference(label)
		if err != nil {
			return nil, fmt.Errorf("%w: verse label %q: %w", ErrInvalidInput, label, err)
		}
		labels = append(labels, ref.String())
	}
	return labels, nil
}
