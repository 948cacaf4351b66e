package bibleref

import (
	"errors"
	"fmt"
)

// UnknownBookError is returned when a book token matches no canonical name or alias.
type UnknownBookError struct {
	Token string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("book name or abbreviation %q not found", e.Token)
}

// InvalidReferenceFormatError is returned when the input matches none of the reference grammars.
type InvalidReferenceFormatError struct {
	Input string
}

func (e *InvalidReferenceFormatError) Error() string {
	return fmt.Sprintf("invalid reference format: %q", e.Input)
}

// IsReferenceError reports whether err was caused by malformed or unresolvable user input.
func IsReferenceError(err error) bool {
	var unknown *UnknownBookError
	var invalid *InvalidReferenceFormatError
	return errors.As(err, &unknown) || errors.As(err, &invalid)
}
