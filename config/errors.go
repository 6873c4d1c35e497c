package config

import "errors"

var (
	// ErrVersion is returned for documents of an unsupported version.
	ErrVersion = errors.New("config: unsupported version")

	// ErrFormat is returned for pipeline files of an unknown format.
	ErrFormat = errors.New("config: unknown document format")

	// ErrInvalid is returned for documents that parse but do not describe a
	// usable pipeline.
	ErrInvalid = errors.New("config: invalid document")
)
