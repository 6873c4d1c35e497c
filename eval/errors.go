package eval

import "errors"

// Failure classes. They never escape Evaluate; they label the debug log.
var (
	// ErrNoSource is returned for a File effect with no source selected.
	ErrNoSource = errors.New("eval: no source")

	// ErrDecode is returned when a File source cannot be read or decoded.
	ErrDecode = errors.New("eval: decode failed")

	// ErrMissingUpstream is returned when a required input has no output.
	ErrMissingUpstream = errors.New("eval: missing upstream")

	// ErrNoSurface is returned when a working surface cannot be allocated.
	ErrNoSurface = errors.New("eval: no surface")

	// ErrMergeIncomplete is returned when a Merge lacks any of its inputs.
	ErrMergeIncomplete = errors.New("eval: merge input set incomplete")

	// ErrPanic is returned when an effect function panicked.
	ErrPanic = errors.New("eval: panic")
)
