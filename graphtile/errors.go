package graphtile

import (
	"fmt"

	"github.com/routetiles/graphtile/graphid"
)

// SliceLengthError reports that a section of a tile could not be sliced to
// its expected length; the tile data is malformed.
type SliceLengthError struct {
	Section  string
	Want, Got int
}

func (e *SliceLengthError) Error() string {
	return fmt.Sprintf("graphtile: section %q: expected %d bytes, got %d", e.Section, e.Want, e.Got)
}

// ValidityError reports a byte sequence that is not valid for its type
// (e.g. an out-of-range tagged enum).
type ValidityError struct {
	Reason string
}

func (e *ValidityError) Error() string {
	return fmt.Sprintf("graphtile: invalid data: %s", e.Reason)
}

// MismatchedBaseError is returned when a GraphId's tile base does not
// match the tile being queried.
type MismatchedBaseError struct {
	Want, Got graphid.GraphId
}

func (e *MismatchedBaseError) Error() string {
	return fmt.Sprintf("graphtile: graph id %s does not belong to tile %s", e.Got, e.Want)
}

// InvalidIndexError is returned when an index is out of range for a
// tile's section.
type InvalidIndexError struct {
	Index, Len int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("graphtile: index %d out of range (len %d)", e.Index, e.Len)
}

// InvalidGraphIdError wraps a graphid construction/validation failure
// encountered while parsing a tile.
type InvalidGraphIdError struct {
	Reason string
}

func (e *InvalidGraphIdError) Error() string {
	return fmt.Sprintf("graphtile: invalid graph id: %s", e.Reason)
}

// InvalidVersionStringError is returned by the builder when a version tag
// does not fit in the fixed 16-byte version field.
type InvalidVersionStringError struct {
	Length int
}

func (e *InvalidVersionStringError) Error() string {
	return fmt.Sprintf("graphtile: version string of %d bytes does not fit in 16 bytes", e.Length)
}

// BitfieldOverflowError is returned by the builder when a count or value
// would overflow the bit width reserved for it on disk.
type BitfieldOverflowError struct {
	Field string
	Value uint64
}

func (e *BitfieldOverflowError) Error() string {
	return fmt.Sprintf("graphtile: field %q value %d overflows its packed width", e.Field, e.Value)
}
