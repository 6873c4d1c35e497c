package graph

import "errors"

// Errors returned by Store mutations.
var (
	ErrEmptyID        = errors.New("graph: empty id")
	ErrNilEffect      = errors.New("graph: nil effect")
	ErrDuplicateNode  = errors.New("graph: duplicate node id")
	ErrUnknownNode    = errors.New("graph: unknown node")
	ErrKindChange     = errors.New("graph: effect kind cannot change")
	ErrDuplicateEdge  = errors.New("graph: duplicate edge id")
	ErrUnknownEdge    = errors.New("graph: unknown edge")
	ErrNoSourceHandle = errors.New("graph: node has no output handle")
	ErrInvalidHandle  = errors.New("graph: invalid target handle")
	ErrHandleOccupied = errors.New("graph: target handle already connected")
	ErrSelfLoop       = errors.New("graph: edge connects a node to itself")
	ErrCycle          = errors.New("graph: edge would create a cycle")

	// ErrStale is returned by Commit for a result from a superseded
	// evaluation or a deleted node.
	ErrStale = errors.New("graph: stale evaluation")
)
