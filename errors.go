package canal

import "errors"

var (
	// ErrNoOutput is returned when a node has no committed output.
	ErrNoOutput = errors.New("canal: node has no output")

	// ErrNotExport is returned when exporting a node that is not an Export.
	ErrNotExport = errors.New("canal: not an export node")

	// ErrClosed is returned by mutations on a closed engine.
	ErrClosed = errors.New("canal: engine closed")
)
