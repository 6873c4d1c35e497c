package effect

import "errors"

// Errors returned by this package.
var (
	// ErrUnknownKind is returned when an effect kind name is not recognized.
	ErrUnknownKind = errors.New("effect: unknown kind")

	// ErrNotEncoded is returned by Open on a source that only holds a decoded image.
	ErrNotEncoded = errors.New("effect: source holds a decoded image")
)
