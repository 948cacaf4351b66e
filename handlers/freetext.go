// handlers/freetext.go - Free text blocks and verse tags
package handlers

import (
	"biblenotes/middleware"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
)

type FreeTextRequest struct {
	Content string `json:"content" validate:"required"`
}

type CreateTagRequest struct {
	BibleReference string   `json:"bible_reference" validate:"required,max=100"`
	Topics         []string `json:"topics" validate:"required,min=1,max=50,dive,max=100"`
}

type UpdateTagRequest struct {
	Topics []string `json:"topics" validate:"required,min=1,max=50,dive,max=100"`
}

// ================== FREE TEXT ENDPOINTS ==================

// POST /api/notes/:id/free-text
func CreateFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req FreeTextRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	block, err := noteService.CreateFreeText(userID, noteID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"free_text": block})
}

// GET /api/notes/:id/free-text
func GetNoteFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	noteID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	blocks, err := noteService.GetNoteFreeText(userID, noteID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"free_text": blocks})
}

// GET /api/free-text/:id
func GetFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	block, err := noteService.GetFreeText(userID, id)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"free_text": block})
}

// PUT /api/free-text/:id
func UpdateFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req FreeTextRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	block, err := noteService.UpdateFreeText(userID, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"free_text": block})
}

// DELETE /api/free-text/:id
func DeleteFreeText(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := noteService.DeleteFreeText(userID, id); err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "Free text deleted"})
}

// ================== VERSE TAG ENDPOINTS ==================

// POST /api/tags
func CreateVerseTag(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req CreateTagRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tag, err := noteService.CreateVerseTag(userID, req.BibleReference, req.Topics)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"tag": tag})
}

// GetVerseTags lists tags, optionally for one passage
// GET /api/tags?reference=...
func GetVerseTags(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	tags, err := noteService.GetVerseTags(userID, c.Query("reference"))
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tags": tags})
}

// GET /api/tags/:id
func GetVerseTag(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	tagID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	tag, err := noteService.GetVerseTag(userID, tagID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tag": tag})
}

// PUT /api/tags/:id
func UpdateVerseTag(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	tagID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTagRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tag, err := noteService.UpdateVerseTag(userID, tagID, req.Topics)
	if err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tag": tag})
}

// DELETE /api/tags/:id
func DeleteVerseTag(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	tagID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := noteService.DeleteVerseTag(userID, tagID); err != nil {
		return respondError(c, err)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "Tag deleted"})
}
