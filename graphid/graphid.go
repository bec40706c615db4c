// Package graphid implements the packed 64-bit tile/node/edge identifier
// used throughout the graph tile hierarchy.
//
// A GraphId packs three fields into its low 46 bits, least-significant first:
//
//	level:3 | tile_id:22 | index:21 | reserved:18
//
// The top 18 bits are reserved for forward compatibility and always read
// back as zero. A GraphId whose low 46 bits are all ones is the sentinel
// "invalid" value: TryFromID and IsValid reject it, while TryFromComponents
// checks only each field's range, so all-maximum components produce the
// sentinel pattern.
package graphid

import (
	"fmt"
	"strings"
)

const (
	levelBits = 3
	tileBits  = 22
	indexBits = 21

	levelMask = (uint64(1) << levelBits) - 1
	tileMask  = (uint64(1) << tileBits) - 1
	indexMask = (uint64(1) << indexBits) - 1

	tileShift  = levelBits
	indexShift = levelBits + tileBits

	// usedBits is the number of low bits that participate in identity;
	// everything above this is reserved and must read back as zero.
	usedBits = levelBits + tileBits + indexBits

	// sentinel is the all-ones pattern across the 46 used bits: the
	// designated invalid marker, never a legal id.
	sentinel = (uint64(1) << usedBits) - 1

	// MaxLevel is the largest representable level value.
	MaxLevel = 1<<levelBits - 1
	// MaxTileID is the largest representable tile id value.
	MaxTileID = 1<<tileBits - 1
	// MaxIndex is the largest representable index value.
	MaxIndex = 1<<indexBits - 1
)

// Error is returned by GraphId constructors when a component is out of
// range.
type Error struct {
	Field string
	Value uint64
}

func (e *Error) Error() string {
	return fmt.Sprintf("graphid: %s value %d out of range", e.Field, e.Value)
}

// Invalid is returned when a raw 64-bit value cannot be accepted as a
// GraphId: either it carries bits above the used range, or its low 46
// bits are exactly the sentinel pattern.
var Invalid = fmt.Errorf("graphid: invalid graph id")

// GraphId is a packed identifier for a tile, or a node/edge within a tile.
type GraphId uint64

// InvalidID is the designated sentinel value: no valid GraphId ever equals it.
const InvalidID GraphId = GraphId(sentinel)

// TryFromComponents builds a GraphId from its level, tile id and index,
// failing if any field overflows its bit width.
func TryFromComponents(level, tileID, index uint32) (GraphId, error) {
	if uint64(level) > levelMask {
		return 0, &Error{"level", uint64(level)}
	}
	if uint64(tileID) > tileMask {
		return 0, &Error{"tile_id", uint64(tileID)}
	}
	if uint64(index) > indexMask {
		return 0, &Error{"index", uint64(index)}
	}
	v := uint64(level) | uint64(tileID)<<tileShift | uint64(index)<<indexShift
	return GraphId(v), nil
}

// TryFromID validates a raw packed value, rejecting the sentinel and any
// set bit above the 46 used bits.
func TryFromID(value uint64) (GraphId, error) {
	if value>>usedBits != 0 {
		return 0, Invalid
	}
	if value&sentinel == sentinel {
		return 0, Invalid
	}
	return GraphId(value), nil
}

// Value returns the raw packed 64-bit representation.
func (g GraphId) Value() uint64 { return uint64(g) }

// Level returns the tile level (0 = highway, ... see tilehierarchy).
func (g GraphId) Level() uint32 { return uint32(uint64(g) & levelMask) }

// TileID returns the tile's index within its level.
func (g GraphId) TileID() uint32 { return uint32((uint64(g) >> tileShift) & tileMask) }

// Index returns the node/edge index within the tile.
func (g GraphId) Index() uint32 { return uint32((uint64(g) >> indexShift) & indexMask) }

// WithIndex returns a new GraphId in the same tile, replacing the index.
func (g GraphId) WithIndex(newIndex uint32) (GraphId, error) {
	return TryFromComponents(g.Level(), g.TileID(), newIndex)
}

// TileBaseID returns the GraphId of this tile's base object (index 0).
func (g GraphId) TileBaseID() GraphId {
	return GraphId(uint64(g) &^ (indexMask << indexShift))
}

// IsValid reports whether g is not the sentinel and carries no reserved bits.
func (g GraphId) IsValid() bool {
	v := uint64(g)
	if v>>usedBits != 0 {
		return false
	}
	return v&sentinel != sentinel
}

// FilePath builds the relative tile file path: "<level>/aaa/bbb/.../ccc.<ext>".
//
// tileID is zero-padded to the smallest multiple of 3 digits that can hold
// maxTileID for the level, then split into 3-digit groups from the most
// significant end.
func (g GraphId) FilePath(ext string, maxTileID uint32) (string, error) {
	if g.TileID() > maxTileID {
		return "", &Error{"tile_id", uint64(g.TileID())}
	}
	digits := 1
	for p := uint32(1); p <= maxTileID/10; p *= 10 {
		digits++
	}
	// round digits up to the next multiple of 3
	if digits%3 != 0 {
		digits += 3 - digits%3
	}
	s := fmt.Sprintf("%0*d", digits, g.TileID())

	var parts []string
	parts = append(parts, fmt.Sprintf("%d", g.Level()))
	for i := 0; i < len(s); i += 3 {
		parts = append(parts, s[i:i+3])
	}
	return strings.Join(parts, "/") + "." + ext, nil
}

// Less implements the canonical ordering: (level, tile_id, index).
func (g GraphId) Less(other GraphId) bool {
	if g.Level() != other.Level() {
		return g.Level() < other.Level()
	}
	if g.TileID() != other.TileID() {
		return g.TileID() < other.TileID()
	}
	return g.Index() < other.Index()
}

// String renders the id as level/tile/index for debugging.
func (g GraphId) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Level(), g.TileID(), g.Index())
}
