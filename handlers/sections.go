// handlers/sections.go - Note sections and annotations
package handlers

import (
	"biblenotes/middleware"
	"biblenotes/models"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateSectionRequest attaches a passage. Without content the verses are
// looked up from the reference.
type CreateSectionRequest struct {
	BibleReference string                `json:"bible_reference" validate:"required,max=100"`
	Content        []models.SectionVerse `json:"content"`
}

type UpdateSectionRequest struct {
	BibleReference *string               `json:"bible_reference" validate:"omitempty,max=100"`
	Content        []models.SectionVerse `json:"content"`
}

type AnnotationRequest struct {
	Content string   `json:"content" validate:"required"`
	Verses  []string `json:"verses" validate:"max=200,dive,max=100"`
}

type UpdateAnnotationRequest struct {
	Content *string  `json:"content"`
	Verses  []string `json:"verses" validate:"omitempty,max=200,dive,max=100"`
}

// ================== SECTION ENDPOINTS ==================

// CreateSection adds a passage to a note
// POST /api/notes/:id/sections
func CreateSection(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req CreateSectionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	var section *models.NoteSection
	if req.Content == nil {
		section, err = noteService.CreateSectionFromReference(c.UserContext(), userID, noteID, req.BibleReference)
	} else {
		section, err = noteService.CreateSection(userID, noteID, req.BibleReference, req.Content)
	}
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"section": section})
}

// GetNoteSections lists a note's sections
// GET /api/notes/:id/sections
func GetNoteSections(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	sections, err := noteService.GetNoteSections(userID, noteID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"sections": sections})
}

// GET /api/sections/:id
func GetSection(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	sectionID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	section, err := noteService.GetSection(userID, sectionID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"section": section})
}

// PUT /api/sections/:id
func UpdateSection(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	sectionID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateSectionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	section, err := noteService.UpdateSection(userID, sectionID, req.BibleReference, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"section": section})
}

// DeleteSection removes a section and its annotations
// DELETE /api/sections/:id
func DeleteSection(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	sectionID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := noteService.DeleteSection(userID, sectionID); err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "Section deleted"})
}

// ================== ANNOTATION ENDPOINTS ==================

// CreateAnnotation comments on verses of a section
// POST /api/sections/:id/annotations
func CreateAnnotation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	sectionID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req AnnotationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	annotation, err := noteService.CreateAnnotation(userID, sectionID, req.Content, req.Verses)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"annotation": annotation})
}

// GET /api/sections/:id/annotations
func GetSectionAnnotations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	sectionID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	annotations, err := noteService.GetSectionAnnotations(userID, sectionID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"annotations": annotations})
}

// GET /api/notes/:id/annotations
func GetNoteAnnotations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	annotations, err := noteService.GetNoteAnnotations(userID, noteID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"annotations": annotations})
}

// GET /api/annotations/:id
func GetAnnotation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	annotationID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	annotation, err := noteService.GetAnnotation(userID, annotationID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"annotation": annotation})
}

// PUT /api/annotations/:id
func UpdateAnnotation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	annotationID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateAnnotationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	annotation, err := noteService.UpdateAnnotation(userID, annotationID, req.Content, req.Verses)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"annotation": annotation})
}

// DELETE /api/annotations/:id
func DeleteAnnotation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	annotationID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := noteService.DeleteAnnotation(userID, annotationID); err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "Annotation deleted"})
}
