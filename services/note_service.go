// services/note_service.go - Notes, sections, annotations, free text and verse tags
package services

import (
	"biblenotes/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
	// ErrPassageNotFound means a well-formed reference has no verses in the store.
	ErrPassageNotFound = errors.New("no verses found for reference")
)

type NoteService struct {
	db       *gorm.DB
	resolver *VerseResolver
	hub      *Hub
}

// NewNoteService wires the note store. resolver and hub may be nil; without a
// resolver sections must be created with explicit content.
func NewNoteService(db *gorm.DB, resolver *VerseResolver, hub *Hub) *NoteService {
	return &NoteService{db: db, resolver: resolver, hub: hub}
}

// NoteFilter narrows GetUserNotes. Search matches title, topics, section
// references and free text, case-insensitively. Topic must equal one of the note's topics.
type NoteFilter struct {
	Search string
	Topic  string
}

// ================== NOTE CRUD OPERATIONS ==================

// CreateNote creates an empty note for userID.
func (s *NoteService) CreateNote(userID uint, title string, topics []string) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: note title is required", ErrInvalidInput)
	}

	note := &models.Note{
		UserID: userID,
		Title:  title,
		Topics: cleanTopics(topics),
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventNoteCreated, NoteID: note.ID, ID: note.ID})
	return note, nil
}

// GetUserNotes lists userID's notes with sections and free text attached,
// most recently updated first.
func (s *NoteService) GetUserNotes(userID uint, filter NoteFilter) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.Where("user_id = ?", userID).
		Preload("Sections", orderByID).
		Preload("FreeText", orderByID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	if filter.Search == "" && filter.Topic == "" {
		return notes, nil
	}

	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if filter.Topic != "" && !hasTopic(n.Topics, filter.Topic) {
			continue
		}
		if filter.Search != "" && !noteMatches(n, filter.Search) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// GetNote returns one note with its sections and free text.
func (s *NoteService) GetNote(userID, noteID uint) (*models.Note, error) {
	if _, err := s.ownedNote(s.db, userID, noteID); err != nil {
		return nil, err
	}

	var note models.Note
	err := s.db.Preload("Sections", orderByID).
		Preload("FreeText", orderByID).
		First(&note, noteID).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote patches the title and/or topics; nil leaves a field unchanged.
func (s *NoteService) UpdateNote(userID, noteID uint, title *string, topics []string) (*models.Note, error) {
	note, err := s.ownedNote(s.db, userID, noteID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, fmt.Errorf("%w: note title is required", ErrInvalidInput)
		}
		note.Title = t
	}
	if topics != nil {
		note.Topics = cleanTopics(topics)
	}

	if err := s.db.Save(note).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventNoteUpdated, NoteID: note.ID, ID: note.ID})
	return note, nil
}

// DeleteNote removes a note and everything attached to it.
func (s *NoteService) DeleteNote(userID, noteID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedNote(tx, userID, noteID); err != nil {
			return err
		}
		return deleteNoteTree(tx, noteID)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(userID, NoteEvent{Type: EventNoteDeleted, NoteID: noteID, ID: noteID})
	return nil
}

// NotesWithSections returns userID's notes that have at least one section.
func (s *NoteService) NotesWithSections(userID uint) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.Where("user_id = ?", userID).
		Preload("Sections", orderByID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if len(n.Sections) > 0 {
			out = append(out, n)
		}
	}
	return out, nil
}

// NotesWithFreeText returns userID's notes that have free-text content.
func (s *NoteService) NotesWithFreeText(userID uint) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.Where("user_id = ?", userID).
		Preload("FreeText", orderByID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if len(n.FreeText) > 0 {
			out = append(out, n)
		}
	}
	return out, nil
}

// DeleteEmptyNotes removes notes last touched before cutoff that have no
// sections, no free text and no topics. It returns how many were deleted.
//
// The emptiness conditions are re-applied by the DELETE itself, so a note
// that gains content after the candidate scan survives the sweep.
func (s *NoteService) DeleteEmptyNotes(cutoff time.Time) (int, error) {
	cutoff = cutoff.UTC()

	var candidates []models.Note
	err := emptyNotes(s.db, cutoff).Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	var empty []models.Note
	for _, n := range candidates {
		if len(cleanTopics(n.Topics)) == 0 {
			empty = append(empty, n)
		}
	}
	if len(empty) == 0 {
		return 0, nil
	}

	var deleted []models.Note
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, n := range empty {
			res := emptyNotes(tx, cutoff).Where("notes.id = ?", n.ID).Delete(&models.Note{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			if err := tx.Where("note_id = ?", n.ID).Delete(&models.NoteSectionAnnotation{}).Error; err != nil {
				return err
			}
			deleted = append(deleted, n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, n := range deleted {
		s.hub.Publish(n.UserID, NoteEvent{Type: EventNoteDeleted, NoteID: n.ID, ID: n.ID})
	}
	notesDeleted.Add(float64(len(deleted)))
	return len(deleted), nil
}

// emptyNotes scopes tx to notes untouched since cutoff with no sections and no free text.
func emptyNotes(tx *gorm.DB, cutoff time.Time) *gorm.DB {
	return tx.Model(&models.Note{}).
		Where("notes.updated_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM note_sections WHERE note_sections.note_id = notes.id)").
		Where("NOT EXISTS (SELECT 1 FROM note_free_text WHERE note_free_text.note_id = notes.id)")
}

// ================== HELPERS ==================

func (s *NoteService) ownedNote(tx *gorm.DB, userID, noteID uint) (*models.Note, error) {
	var note models.Note
	if err := tx.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrForbidden
	}
	return &note, nil
}

func touchNote(tx *gorm.DB, noteID uint) error {
	return tx.Model(&models.Note{}).Where("id = ?", noteID).Update("updated_at", time.Now().UTC()).Error
}

func deleteNoteTree(tx *gorm.DB, noteID uint) error {
	if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteSectionAnnotation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteSection{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteFreeText{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Note{}, noteID).Error
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// cleanTopics trims, drops empties and de-duplicates while keeping order.
func cleanTopics(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		tt := strings.TrimSpace(t)
		if tt == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(tt)]; ok {
			continue
		}
		seen[strings.ToLower(tt)] = struct{}{}
		out = append(out, tt)
	}
	return out
}

func hasTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if strings.EqualFold(t, strings.TrimSpace(topic)) {
			return true
		}
	}
	return false
}

func noteMatches(n models.Note, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), term) {
		return true
	}
	for _, t := range n.Topics {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	for _, sec := range n.Sections {
		if strings.Contains(strings.ToLower(sec.BibleReference), term) {
			return true
		}
	}
	for _, ft := range n.FreeText {
		if strings.Contains(strings.ToLower(ft.Content), term) {
			return true
		}
	}
	return false
}
