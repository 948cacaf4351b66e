package services

import (
	"context"
	"testing"
	"time"

	"biblenotes/bibleref"
	"biblenotes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNoteService(t *testing.T) (*NoteService, *gorm.DB, *Hub) {
	t.Helper()
	db := newTestDB(t)
	hub := NewHub()
	return NewNoteService(db, NewVerseResolver(seededStore(t, db)), hub), db, hub
}

func TestNoteCRUD(t *testing.T) {
	svc, _, _ := newNoteService(t)

	note, err := svc.CreateNote(1, "  Sunday sermon ", []string{"grace", " Grace", "", "faith"})
	require.NoError(t, err)
	assert.Equal(t, "Sunday sermon", note.Title)
	assert.Equal(t, []string{"grace", "faith"}, note.Topics)

	got, err := svc.GetNote(1, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, []string{"grace", "faith"}, got.Topics)

	title := "Evening sermon"
	updated, err := svc.UpdateNote(1, note.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, "Evening sermon", updated.Title)
	assert.Equal(t, []string{"grace", "faith"}, updated.Topics)

	require.NoError(t, svc.DeleteNote(1, note.ID))
	_, err = svc.GetNote(1, note.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateNote_RequiresTitle(t *testing.T) {
	svc, _, _ := newNoteService(t)

	_, err := svc.CreateNote(1, "   ", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNoteOwnership(t *testing.T) {
	svc, _, _ := newNoteService(t)

	note, err := svc.CreateNote(1, "Mine", nil)
	require.NoError(t, err)

	_, err = svc.GetNote(2, note.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateFreeText(2, note.ID, "not yours")
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, svc.DeleteNote(2, note.ID), ErrForbidden)

	_, err = svc.GetNote(1, note.ID)
	require.NoError(t, err)
}

func TestCreateSectionFromReference(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)

	section, err := svc.CreateSectionFromReference(ctx, 1, note.ID, "jn 3:18-99")
	require.NoError(t, err)
	assert.Equal(t, "John 3:18-20", section.BibleReference)
	require.Len(t, section.Content, 3)
	assert.Equal(t, models.SectionVerse{Book: "John", Chapter: 3, Verse: 18, Text: "John 3:18 text"}, section.Content[0])

	sections, err := svc.GetNoteSections(1, note.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Content, 3)

	_, err = svc.CreateSectionFromReference(ctx, 1, note.ID, "Obadiah 5")
	require.ErrorIs(t, err, ErrPassageNotFound)

	_, err = svc.CreateSectionFromReference(ctx, 1, note.ID, "Zorg 1:1")
	var unknown *bibleref.UnknownBookError
	require.ErrorAs(t, err, &unknown)
}

func TestCreateSection_Manual(t *testing.T) {
	svc, _, _ := newNoteService(t)

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)

	section, err := svc.CreateSection(1, note.ID, "ps 23", nil)
	require.NoError(t, err)
	assert.Equal(t, "Psalms 23", section.BibleReference)
	assert.NotNil(t, section.Content)

	ref := "Psalm 23:1-3"
	updated, err := svc.UpdateSection(1, section.ID, &ref, []models.SectionVerse{{Book: "Psalms", Chapter: 23, Verse: 1, Text: "The LORD is my shepherd"}})
	require.NoError(t, err)
	assert.Equal(t, "Psalms 23:1-3", updated.BibleReference)
	assert.Len(t, updated.Content, 1)

	_, err = svc.CreateSection(1, note.ID, "not a reference", nil)
	require.True(t, bibleref.IsReferenceError(err))
}

func TestAnnotations(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)
	section, err := svc.CreateSectionFromReference(ctx, 1, note.ID, "John 3:16-18")
	require.NoError(t, err)

	annotation, err := svc.CreateAnnotation(1, section.ID, "God so loved", []string{"jn 3:16", "", "John 3:17"})
	require.NoError(t, err)
	assert.Equal(t, note.ID, annotation.NoteID)
	assert.Equal(t, []string{"John 3:16", "John 3:17"}, annotation.Verses)

	_, err = svc.CreateAnnotation(1, section.ID, "bad", []string{"John three"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateAnnotation(2, section.ID, "not mine", nil)
	require.ErrorIs(t, err, ErrForbidden)

	content := "For God so loved the world"
	updated, err := svc.UpdateAnnotation(1, annotation.ID, &content, nil)
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)
	assert.Equal(t, []string{"John 3:16", "John 3:17"}, updated.Verses)

	bySection, err := svc.GetSectionAnnotations(1, section.ID)
	require.NoError(t, err)
	assert.Len(t, bySection, 1)

	byNote, err := svc.GetNoteAnnotations(1, note.ID)
	require.NoError(t, err)
	assert.Len(t, byNote, 1)

	require.NoError(t, svc.DeleteAnnotation(1, annotation.ID))
	byNote, err = svc.GetNoteAnnotations(1, note.ID)
	require.NoError(t, err)
	assert.Empty(t, byNote)
}

func TestDeleteSection_RemovesAnnotations(t *testing.T) {
	svc, db, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)
	section, err := svc.CreateSectionFromReference(ctx, 1, note.ID, "Gen 1:1-3")
	require.NoError(t, err)
	_, err = svc.CreateAnnotation(1, section.ID, "creation", []string{"Gen 1:1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSection(1, section.ID))

	var count int64
	db.Model(&models.NoteSectionAnnotation{}).Where("section_id = ?", section.ID).Count(&count)
	assert.Zero(t, count)

	_, err = svc.GetSection(1, section.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNote_Cascades(t *testing.T) {
	svc, db, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)
	section, err := svc.CreateSectionFromReference(ctx, 1, note.ID, "John 3:16")
	require.NoError(t, err)
	_, err = svc.CreateAnnotation(1, section.ID, "love", nil)
	require.NoError(t, err)
	_, err = svc.CreateFreeText(1, note.ID, "opening prayer")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(1, note.ID))

	for _, model := range []interface{}{&models.NoteSection{}, &models.NoteSectionAnnotation{}, &models.NoteFreeText{}} {
		var count int64
		db.Model(model).Where("note_id = ?", note.ID).Count(&count)
		assert.Zero(t, count)
	}
}

func TestGetUserNotes_Filter(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	a, err := svc.CreateNote(1, "Love chapter", []string{"love"})
	require.NoError(t, err)
	_, err = svc.CreateSectionFromReference(ctx, 1, a.ID, "1 John 1:5")
	require.NoError(t, err)

	b, err := svc.CreateNote(1, "Creation", []string{"origins"})
	require.NoError(t, err)
	_, err = svc.CreateFreeText(1, b.ID, "the heavens declare")
	require.NoError(t, err)

	_, err = svc.CreateNote(2, "Someone else's love note", []string{"love"})
	require.NoError(t, err)

	all, err := svc.GetUserNotes(1, NoteFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTopic, err := svc.GetUserNotes(1, NoteFilter{Topic: "LOVE"})
	require.NoError(t, err)
	require.Len(t, byTopic, 1)
	assert.Equal(t, a.ID, byTopic[0].ID)

	byReference, err := svc.GetUserNotes(1, NoteFilter{Search: "1 john"})
	require.NoError(t, err)
	require.Len(t, byReference, 1)
	assert.Equal(t, a.ID, byReference[0].ID)

	byFreeText, err := svc.GetUserNotes(1, NoteFilter{Search: "HEAVENS"})
	require.NoError(t, err)
	require.Len(t, byFreeText, 1)
	assert.Equal(t, b.ID, byFreeText[0].ID)

	withSections, err := svc.NotesWithSections(1)
	require.NoError(t, err)
	require.Len(t, withSections, 1)
	assert.Equal(t, a.ID, withSections[0].ID)

	withFreeText, err := svc.NotesWithFreeText(1)
	require.NoError(t, err)
	require.Len(t, withFreeText, 1)
	assert.Equal(t, b.ID, withFreeText[0].ID)
}

func TestFreeText(t *testing.T) {
	svc, _, _ := newNoteService(t)

	note, err := svc.CreateNote(1, "Study", nil)
	require.NoError(t, err)

	block, err := svc.CreateFreeText(1, note.ID, `{"ops":[{"insert":"hello"}]}`)
	require.NoError(t, err)
	assert.Equal(t, uint(1), block.UserID)

	updated, err := svc.UpdateFreeText(1, block.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)

	_, err = svc.UpdateFreeText(2, block.ID, "hijack")
	require.ErrorIs(t, err, ErrForbidden)

	blocks, err := svc.GetNoteFreeText(1, note.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "revised", blocks[0].Content)

	require.NoError(t, svc.DeleteFreeText(1, block.ID))
	require.ErrorIs(t, svc.DeleteFreeText(1, block.ID), ErrNotFound)
}

func TestVerseTags(t *testing.T) {
	svc, _, _ := newNoteService(t)

	tag, err := svc.CreateVerseTag(1, "jn 3:16", []string{"love", "salvation", "love"})
	require.NoError(t, err)
	assert.Equal(t, "John 3:16", tag.BibleReference)
	assert.Equal(t, []string{"love", "salvation"}, tag.Topics)

	_, err = svc.CreateVerseTag(1, "Gen 1:1", nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateVerseTag(1, "Hezekiah 1:1", []string{"x"})
	require.True(t, bibleref.IsReferenceError(err))

	_, err = svc.CreateVerseTag(1, "Gen 1:1", []string{"creation"})
	require.NoError(t, err)

	forPassage, err := svc.GetVerseTags(1, "John 3:16")
	require.NoError(t, err)
	require.Len(t, forPassage, 1)
	assert.Equal(t, tag.ID, forPassage[0].ID)

	all, err := svc.GetVerseTags(1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := svc.UpdateVerseTag(1, tag.ID, []string{"grace"})
	require.NoError(t, err)
	assert.Equal(t, []string{"grace"}, updated.Topics)

	require.ErrorIs(t, svc.DeleteVerseTag(2, tag.ID), ErrForbidden)
	require.NoError(t, svc.DeleteVerseTag(1, tag.ID))
}

func TestDeleteEmptyNotes(t *testing.T) {
	svc, _, _ := newNoteService(t)
	ctx := context.Background()

	empty, err := svc.CreateNote(1, "Untitled", nil)
	require.NoError(t, err)
	tagged, err := svc.CreateNote(1, "Topic only", []string{"prayer"})
	require.NoError(t, err)
	withSection, err := svc.CreateNote(1, "Passage", nil)
	require.NoError(t, err)
	_, err = svc.CreateSectionFromReference(ctx, 1, withSection.ID, "John 3:16")
	require.NoError(t, err)
	withText, err := svc.CreateNote(1, "Thoughts", nil)
	require.NoError(t, err)
	_, err = svc.CreateFreeText(1, withText.ID, "thoughts")
	require.NoError(t, err)

	deleted, err := svc.DeleteEmptyNotes(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted, "recent notes are kept")

	deleted, err = svc.DeleteEmptyNotes(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = svc.GetNote(1, empty.ID)
	require.ErrorIs(t, err, ErrNotFound)
	for _, id := range []uint{tagged.ID, withSection.ID, withText.ID} {
		_, err = svc.GetNote(1, id)
		require.NoError(t, err)
	}
}

func TestDeleteEmptyNotes_KeepsNoteThatGainsContent(t *testing.T) {
	svc, db, _ := newNoteService(t)

	idle, err := svc.CreateNote(1, "Idle", nil)
	require.NoError(t, err)

	// Attach a section between the candidate scan and the delete, as a user
	// typing into the note during the sweep would.
	var fired bool
	var insertErr error
	err = db.Callback().Delete().Before("gorm:delete").Register("test:late_section", func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "notes" {
			return
		}
		fired = true
		insertErr = tx.Session(&gorm.Session{NewDB: true}).Create(&models.NoteSection{
			NoteID:         idle.ID,
			BibleReference: "John 3:16",
			Content:        []models.SectionVerse{},
		}).Error
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteEmptyNotes(time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.True(t, fired)
	require.NoError(t, insertErr)
	assert.Zero(t, deleted)

	var sections int64
	require.NoError(t, db.Model(&models.NoteSection{}).Where("note_id = ?", idle.ID).Count(&sections).Error)
	assert.Equal(t, int64(1), sections)

	_, err = svc.GetNote(1, idle.ID)
	require.NoError(t, err)
}

func TestTimestampsStoredInUTC(t *testing.T) {
	svc, db, _ := newNoteService(t)

	note, err := svc.CreateNote(1, "Clock", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, note.CreatedAt.Location())
	assert.Equal(t, time.UTC, note.UpdatedAt.Location())
	assert.Equal(t, time.UTC, db.NowFunc().Location())
}

func TestNoteEventsPublished(t *testing.T) {
	svc, _, hub := newNoteService(t)

	events, cancel := hub.Subscribe(1)
	defer cancel()

	note, err := svc.CreateNote(1, "Live", nil)
	require.NoError(t, err)
	_, err = svc.CreateFreeText(1, note.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNote(1, note.ID))

	var types []string
	for i := 0; i < 3; i++ {
		select {
		case ev := <-events:
			assert.Equal(t, note.ID, ev.NoteID)
			types = append(types, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.Equal(t, []string{EventNoteCreated, EventFreeTextCreated, EventNoteDeleted}, types)
}
