// handlers/notes.go - Note HTTP Handlers
package handlers

import (
	"biblenotes/middleware"
	"biblenotes/services"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateNoteRequest struct {
	Title  string   `json:"title" validate:"required,max=300"`
	Topics []string `json:"topics" validate:"max=50,dive,max=100"`
}

// UpdateNoteRequest patches a note; omitted fields are left unchanged.
type UpdateNoteRequest struct {
	Title  *string  `json:"title" validate:"omitempty,max=300"`
	Topics []string `json:"topics" validate:"omitempty,max=50,dive,max=100"`
}

// ================== NOTE CRUD ENDPOINTS ==================

// CreateNote creates a new note
// POST /api/notes
func CreateNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req CreateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	note, err := noteService.CreateNote(userID, req.Title, req.Topics)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"note": note})
}

// GetNotes lists the user's notes, newest update first
// GET /api/notes?search=...&topic=...
func GetNotes(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notes, err := noteService.GetUserNotes(userID, services.NoteFilter{
		Search: c.Query("search"),
		Topic:  c.Query("topic"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"notes": notes, "count": len(notes)})
}

// GetNotesWithSections lists notes that have at least one passage
// GET /api/notes/with-sections
func GetNotesWithSections(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notes, err := noteService.NotesWithSections(userID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"notes": notes, "count": len(notes)})
}

// GetNotesWithFreeText lists notes that have free text
// GET /api/notes/with-free-text
func GetNotesWithFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notes, err := noteService.NotesWithFreeText(userID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"notes": notes, "count": len(notes)})
}

// GetNote returns one note with sections and free text
// GET /api/notes/:id
func GetNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	note, err := noteService.GetNote(userID, noteID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"note": note})
}

// UpdateNote changes a note's title and/or topics
// PUT /api/notes/:id
func UpdateNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	note, err := noteService.UpdateNote(userID, noteID, req.Title, req.Topics)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"note": note})
}

// DeleteNote removes a note with its sections, annotations and free text
// DELETE /api/notes/:id
func DeleteNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := noteService.DeleteNote(userID, noteID); err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "Note deleted"})
}
