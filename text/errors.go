package text

import "errors"

var (
	// ErrEmptyText is returned when the text has no visible content.
	ErrEmptyText = errors.New("text: empty text")

	// ErrInvalidSize is returned for non-positive or non-finite font sizes.
	ErrInvalidSize = errors.New("text: invalid font size")
)
