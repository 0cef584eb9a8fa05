// Package pcerr defines the stable error taxonomy returned by the
// pathfinding core. The map reader, normalizer, obstacle-config
// parser, rasterizer, pathfinders and route orchestrator return these
// kinds; elevation.NewField returns plain errors.
package pcerr

import "fmt"

// Kind is a stable wire name for an error category. Callers may
// switch on Kind without depending on the wrapped message text.
type Kind string

const (
	// MapLoad indicates an XML parse or I/O failure in the map reader.
	MapLoad Kind = "MapLoad"
	// DegenerateBounds indicates a feature bounding rectangle with zero extent.
	DegenerateBounds Kind = "DegenerateBounds"
	// InvalidWaypoint indicates a waypoint out of bounds or on an impassable cell.
	InvalidWaypoint Kind = "InvalidWaypoint"
	// SegmentUnreachable indicates a pathfinder exhausted its open set without reaching the goal.
	SegmentUnreachable Kind = "SegmentUnreachable"
	// Cancelled indicates cooperative cancellation was triggered.
	Cancelled Kind = "Cancelled"
	// BadConfig indicates an obstacle config line could not be parsed.
	BadConfig Kind = "BadConfig"
)

// Error is the concrete error type returned by the core. Index and
// IndexB carry the payload for error kinds that name a waypoint or
// segment (InvalidWaypoint, SegmentUnreachable); they are -1 when unused.
type Error struct {
	Kind    Kind
	Message string
	Index   int
	IndexB  int
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is a *Error with the same Kind, so callers
// can write errors.Is(err, pcerr.New(pcerr.Cancelled, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs a plain *Error with no waypoint/segment payload.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Index: -1, IndexB: -1}
}

// Wrap constructs a *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Index: -1, IndexB: -1, Wrapped: cause}
}

// NewMapLoad reports a Map Reader failure.
func NewMapLoad(path string, cause error) *Error {
	return Wrap(MapLoad, fmt.Sprintf("failed to load map %q", path), cause)
}

// NewDegenerateBounds reports a zero-extent bounding rectangle.
func NewDegenerateBounds() *Error {
	return New(DegenerateBounds, "feature bounding rectangle has zero extent")
}

// NewInvalidWaypoint reports waypoint i as out of bounds or impassable.
func NewInvalidWaypoint(i int) *Error {
	e := New(InvalidWaypoint, fmt.Sprintf("waypoint %d is out of bounds or impassable", i))
	e.Index = i
	return e
}

// NewSegmentUnreachable reports that the pathfinder could not connect
// waypoint a (index i) to waypoint b (index i+1).
func NewSegmentUnreachable(i int, a, b int) *Error {
	e := New(SegmentUnreachable, fmt.Sprintf("segment %d unreachable (cell %d -> cell %d)", i, a, b))
	e.Index = i
	e.IndexB = b
	return e
}

// NewCancelled reports cooperative cancellation.
func NewCancelled() *Error {
	return New(Cancelled, "operation cancelled")
}

// NewBadConfig reports an unparseable obstacle config line.
func NewBadConfig(line int, raw string) *Error {
	e := New(BadConfig, fmt.Sprintf("obstacle config line %d unparseable: %q", line, raw))
	e.Index = line
	return e
}
