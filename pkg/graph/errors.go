package graph

import "errors"

// Construction-time contract violations. Malformed detector input is
// rejected with one of these, never silently dropped and never
// converted into a validation issue.
var (
	ErrEmptyID        = errors.New("entity id is empty")
	ErrDuplicateID    = errors.New("duplicate entity id")
	ErrUnknownKind    = errors.New("unknown kind")
	ErrInvalidBBox    = errors.New("bounding box has negative dimensions")
	ErrShortPolyline  = errors.New("polyline has fewer than 2 points")
	ErrEmptyContent   = errors.New("text content is empty")
	ErrBadConfidence  = errors.New("confidence outside [0, 1]")
	ErrUnknownNodeRef = errors.New("reference to unknown node id")
)
