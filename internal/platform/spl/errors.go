package spl

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is wrapped by the MalformedInputError returned for an
// empty document.
var ErrEmptyInput = errors.New("spl: XML data is empty")

// MalformedInputError reports a document that could not be loaded at all.
// It is fatal to that document only.
type MalformedInputError struct {
	Filename string
	Err      error
}

func (e *MalformedInputError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("spl: malformed input: %v", e.Err)
	}
	return fmt.Sprintf("spl: malformed input %s: %v", e.Filename, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
