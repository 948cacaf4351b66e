// models/verse.go
package models

// Verse is one row of seeded translation text. (book, chapter, verse) is unique.
type Verse struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	Book    string `json:"book" gorm:"not null;size:50;uniqueIndex:idx_verses_book_chapter_verse"`
	Chapter int    `json:"chapter" gorm:"not null;uniqueIndex:idx_verses_book_chapter_verse"`
	Verse   int    `json:"verse" gorm:"not null;uniqueIndex:idx_verses_book_chapter_verse"`
	Text    string `json:"text" gorm:"type:text;not null"`
}

func (Verse) TableName() string {
	return "verses"
}
