// database/migrate.go - Database Migration Runner
package database

import (
	"biblenotes/models"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// RunMigrations migrates the global connection and exits on failure.
func RunMigrations() {
	log.Println("🔄 Running database migrations...")

	if err := Migrate(GetDB()); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// Migrate creates or updates every table and index used by the application.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.NoteSection{},
		&models.NoteSectionAnnotation{},
		&models.NoteFreeText{},
		&models.VerseTag{},
		&models.Verse{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return createCoreIndexes(conn)
}

// createCoreIndexes creates the secondary indexes that AutoMigrate does not express.
func createCoreIndexes(conn *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_notes_user_updated ON notes(user_id, updated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_annotations_note_section ON note_section_annotations(note_id, section_id)",
		"CREATE INDEX IF NOT EXISTS idx_verses_book_chapter ON verses(book, chapter)",
	}

	for _, stmt := range statements {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
