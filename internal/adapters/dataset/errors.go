package dataset

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrDataLoad covers unreadable files: not found, or undecodable under
	// every configured encoding.
	ErrDataLoad = errors.New("data load failed")

	// ErrValidation covers structurally bad tables, e.g. a required column
	// missing from the header.
	ErrValidation = errors.New("dataset validation failed")
)
