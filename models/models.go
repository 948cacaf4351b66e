// models/models.go - Note-taking models
package models

import (
	"time"
)

// Note is a sermon or study note owned by one user.
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Title     string         `json:"title" gorm:"not null;size:300"`
	Topics    []string       `json:"topics" gorm:"serializer:json;type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Sections  []NoteSection  `json:"sections,omitempty" gorm:"foreignKey:NoteID"`
	FreeText  []NoteFreeText `json:"free_text,omitempty" gorm:"foreignKey:NoteID"`
}

// SectionVerse is a verse snapshot stored inside a note section.
type SectionVerse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// NoteSection attaches a Bible passage to a note.
type NoteSection struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	NoteID         uint           `json:"note_id" gorm:"not null;index"`
	BibleReference string         `json:"bible_reference" gorm:"not null;size:100"`
	Content        []SectionVerse `json:"content" gorm:"serializer:json;type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NoteSectionAnnotation is a comment on one or more verses of a section.
// Verses holds display labels such as "John 3:16".
type NoteSectionAnnotation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NoteID    uint      `json:"note_id" gorm:"not null;index"`
	SectionID uint      `json:"section_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text"`
	Verses    []string  `json:"verses" gorm:"serializer:json;type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteFreeText is free-form editor content (serialized by the client) attached to a note.
type NoteFreeText struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NoteID    uint      `json:"note_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VerseTag labels a passage with user topics independent of any note.
type VerseTag struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	BibleReference string    `json:"bible_reference" gorm:"not null;size:100"`
	Topics         []string  `json:"topics" gorm:"serializer:json;type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}

func (NoteSection) TableName() string {
	return "note_sections"
}

func (NoteSectionAnnotation) TableName() string {
	return "note_section_annotations"
}

func (NoteFreeText) TableName() string {
	return "note_free_text"
}

func (VerseTag) TableName() string {
	return "verse_tags"
}
