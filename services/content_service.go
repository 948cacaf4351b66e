// services/content_service.go - Free text blocks and verse tags
package services

import (
	"biblenotes/bibleref"
	"biblenotes/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ================== FREE TEXT ==================

func (s *NoteService) CreateFreeText(userID, noteID uint, content string) (*models.NoteFreeText, error) {
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	block := &models.NoteFreeText{
		NoteID:  noteID,
		UserID:  userID,
		Content: content,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		return touchNote(tx, noteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventFreeTextCreated, NoteID: noteID, ID: block.ID})
	return block, nil
}

func (s *NoteService) GetNoteFreeText(userID, noteID uint) ([]models.NoteFreeText, error) {
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	var blocks []models.NoteFreeText
	if err := s.db.Where("note_id = ?", noteID).Order("id ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *NoteService) GetFreeText(userID, freeTextID uint) (*models.NoteFreeText, error) {
	return s.ownedFreeText(userID, freeTextID)
}

func (s *NoteService) UpdateFreeText(userID, freeTextID uint, content string) (*models.NoteFreeText, error) {
	block, err := s.ownedFreeText(userID, freeTextID)
	if err != nil {
		return nil, err
	}
	block.Content = content

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(block).Error; err != nil {
			return err
		}
		return touchNote(tx, block.NoteID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventFreeTextUpdated, NoteID: block.NoteID, ID: block.ID})
	return block, nil
}

func (s *NoteService) DeleteFreeText(userID, freeTextID uint) error {
	block, err := s.ownedFreeText(userID, freeTextID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.NoteFreeText{}, freeTextID).Error; err != nil {
			return err
		}
		return touchNote(tx, block.NoteID)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventFreeTextDeleted, NoteID: block.NoteID, ID: freeTextID})
	return nil
}

func (s *NoteService) ownedFreeText(userID, freeTextID uint) (*models.NoteFreeText, error) {
	var block models.NoteFreeText
	if err := s.db.First(&block, freeTextID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if block.UserID != userID {
		return nil, ErrForbidden
	}
	return &block, nil
}

// ================== VERSE TAGS ==================

// CreateVerseTag labels a passage with topics. The reference is stored in
// canonical form so "jn 3:16" and "John 3:16" tag the same passage.
func (s *NoteService) CreateVerseTag(userID uint, reference string, topics []string) (*models.VerseTag, error) {
	ref, err := bibleref.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	cleaned := cleanTopics(topics)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one topic is required", ErrInvalidInput)
	}

	tag := &models.VerseTag{
		UserID:         userID,
		BibleReference: ref.String(),
		Topics:         cleaned,
	}
	if err := s.db.Create(tag).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventTagCreated, ID: tag.ID})
	return tag, nil
}

// GetVerseTags lists userID's tags. A non-empty reference restricts the list
// to that passage.
func (s *NoteService) GetVerseTags(userID uint, reference string) ([]models.VerseTag, error) {
	query := s.db.Where("user_id = ?", userID)
	if reference != "" {
		ref, err := bibleref.ParseReference(reference)
		if err != nil {
			return nil, err
		}
		query = query.Where("bible_reference = ?", ref.String())
	}

	var tags []models.VerseTag
	if err := query.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *NoteService) GetVerseTag(userID, tagID uint) (*models.VerseTag, error) {
	return s.ownedTag(userID, tagID)
}

func (s *NoteService) UpdateVerseTag(userID, tagID uint, topics []string) (*models.VerseTag, error) {
	tag, err := s.ownedTag(userID, tagID)
	if err != nil {
		return nil, err
	}

	cleaned := cleanTopics(topics)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one topic is required", ErrInvalidInput)
	}
	tag.Topics = cleaned

	if err := s.db.Save(tag).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventTagUpdated, ID: tag.ID})
	return tag, nil
}

func (s *NoteService) DeleteVerseTag(userID, tagID uint) error {
	if _, err := s.ownedTag(userID, tagID); err != nil {
		return err
	}
	if err := s.db.Delete(&models.VerseTag{}, tagID).Error; err != nil {
		return err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventTagDeleted, ID: tagID})
	return nil
}

func (s *NoteService) ownedTag(userID, tagID uint) (*models.VerseTag, error) {
	var tag models.VerseTag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tag.UserID != userID {
		return nil, ErrForbidden
	}
	return &tag, nil
}
