// handlers/verses.go
package handlers

import (
	"strings"

	"biblenotes/bibleref"

	"github.com/gofiber/fiber/v2"
)

func referenceQuery(c *fiber.Ctx) (string, error) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "reference is required")
	}
	return reference, nil
}

// GetVerses resolves a reference such as "John 3:16-18" against the verse store.
// An unknown passage is a successful response with no verses.
// GET /api/verses?reference=...
func GetVerses(c *fiber.Ctx) error {
	reference, err := referenceQuery(c)
	if err != nil {
		return err
	}

	result, err := verseResolver.GetVersesFromDB(c.UserContext(), reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"formatted_reference": result.FormattedReference,
		"verses":              result.Verses,
	})
}

// GetVerse returns exactly one verse, verse 1 for chapter-only references.
// GET /api/verses/single?reference=...
func GetVerse(c *fiber.Ctx) error {
	reference, err := referenceQuery(c)
	if err != nil {
		return err
	}

	result, err := verseResolver.GetVerseFromDB(c.UserContext(), reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"formatted_reference": result.FormattedReference,
		"verses":              result.Verses,
	})
}

// ParseReference echoes the structured form of a reference without touching the store.
// GET /api/verses/parse?reference=...
func ParseReference(c *fiber.Ctx) error {
	reference, err := referenceQuery(c)
	if err != nil {
		return err
	}

	ref, err := bibleref.ParseReference(reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"reference": ref,
		"formatted": ref.String(),
	})
}

// GetBooks lists the canonical books with their aliases.
// GET /api/books
func GetBooks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"books":   bibleref.Books(),
	})
}

// ResolveBook maps a user-typed book token to its canonical name.
// GET /api/books/resolve?q=...
func ResolveBook(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("q"))
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	book, err := bibleref.LookupBook(token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"book":    book,
	})
}
