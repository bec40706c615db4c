package graphtile

import (
	"encoding/binary"
	"math"

	"github.com/routetiles/graphtile/graphid"
)

// NodeInfoSize is the fixed on-disk size of one NodeInfo record.
const NodeInfoSize = 32

// NodeInfo describes one routing graph node (an intersection or dead end).
type NodeInfo struct {
	lonOffsetRaw uint32 // 26 bits: 22-bit whole + 4-bit extra precision
	latOffsetRaw uint32 // 26 bits

	AccessMask uint16 // 12 bits

	EdgeIndex      uint32 // 21 bits: first outbound edge index
	TransitionIndex uint32 // 21 bits
	AdminIndex     uint16 // 12 bits
	TimeZoneIndex  uint16 // 9 bits
	TimeZoneExt    bool

	EdgeCount          uint8  // 7 bits: outbound edge count on this level
	Flags              uint8  // 7 bits, see Node flag constants
	IntersectionType   uint8  // 4 bits
	NodeType           uint8  // 4 bits
	Density            uint8  // 4 bits
	ElevationRaw       uint16 // 15 bits, quantized
	TransitionCount    uint8  // 3 bits
	LocalDriveability  uint16 // 16 bits, two bits per local edge
	LocalEdgeCount     uint8  // 3 bits
	LocalEdgeCountExt  bool

	Headings [8]uint8 // raw quantized headings, one per local edge
}

// Node flag bits within NodeInfo.Flags.
const (
	NodeFlagTrafficSignal uint8 = 1 << iota
	NodeFlagModeChangeAllowed
	NodeFlagNamedIntersection
	NodeFlagDriveOnRight
	NodeFlagTaggedAccess
	NodeFlagPrivateAccess
	NodeFlagCashOnlyToll
)

func decodeLatLonOffset(raw uint32) float64 {
	value := raw >> 4
	value7 := raw & 0xF
	return float64(value)*1e-6 + float64(value7)*1e-7
}

func encodeLatLonOffset(offsetDeg float64) uint32 {
	if offsetDeg < 0 {
		offsetDeg = 0
	}
	scaled := offsetDeg * 1e7
	whole := uint32(scaled / 10)
	frac := uint32(math.Round(scaled)) % 10
	return (whole << 4) | (frac & 0xF)
}

// LonOffset returns the node's longitude offset from the tile's SW corner.
func (n NodeInfo) LonOffset() float64 { return decodeLatLonOffset(n.lonOffsetRaw) }

// LatOffset returns the node's latitude offset from the tile's SW corner.
func (n NodeInfo) LatOffset() float64 { return decodeLatLonOffset(n.latOffsetRaw) }

// LonLat resolves the node's absolute coordinate given its tile's header.
func (n NodeInfo) LonLat(h Header) (lon, lat float64) {
	return float64(h.SWCornerLon) + n.LonOffset(), float64(h.SWCornerLat) + n.LatOffset()
}

// Elevation decodes the quantized elevation in meters.
func (n NodeInfo) Elevation() float64 {
	return -500 + 0.25*float64(n.ElevationRaw)
}

// HeadingDegrees decodes heading i (0-7) to degrees.
func (n NodeInfo) HeadingDegrees(i int) float64 {
	return math.Round(float64(n.Headings[i]) * 359.0 / 255.0)
}

// DecodeNodeInfo parses a single NodeInfo record from b[0:NodeInfoSize].
func DecodeNodeInfo(b []byte) (NodeInfo, error) {
	if len(b) < NodeInfoSize {
		return NodeInfo{}, &SliceLengthError{"node_info", NodeInfoSize, len(b)}
	}
	le := binary.LittleEndian
	word0 := le.Uint64(b[0:8])
	word1 := le.Uint64(b[8:16])
	word2 := le.Uint64(b[16:24])
	headings := le.Uint64(b[24:32])

	var n NodeInfo
	n.lonOffsetRaw = uint32(getBits(word0, 0, 26))
	n.latOffsetRaw = uint32(getBits(word0, 26, 26))
	n.AccessMask = uint16(getBits(word0, 52, 12))

	n.EdgeIndex = uint32(getBits(word1, 0, 21))
	n.TransitionIndex = uint32(getBits(word1, 21, 21))
	n.AdminIndex = uint16(getBits(word1, 42, 12))
	n.TimeZoneIndex = uint16(getBits(word1, 54, 9))
	n.TimeZoneExt = boolBit(word1, 63)

	n.EdgeCount = uint8(getBits(word2, 0, 7))
	n.Flags = uint8(getBits(word2, 7, 7))
	n.IntersectionType = uint8(getBits(word2, 14, 4))
	n.NodeType = uint8(getBits(word2, 18, 4))
	n.Density = uint8(getBits(word2, 22, 4))
	n.ElevationRaw = uint16(getBits(word2, 26, 15))
	n.TransitionCount = uint8(getBits(word2, 41, 3))
	n.LocalDriveability = uint16(getBits(word2, 44, 16))
	n.LocalEdgeCount = uint8(getBits(word2, 60, 3))
	n.LocalEdgeCountExt = boolBit(word2, 63)

	for i := 0; i < 8; i++ {
		n.Headings[i] = uint8(getBits(headings, uint(i*8), 8))
	}

	return n, nil
}

// Encode serializes n to its fixed 32-byte on-disk form.
func (n NodeInfo) Encode() []byte {
	b := make([]byte, NodeInfoSize)
	le := binary.LittleEndian

	var word0 uint64
	setBits(&word0, 0, 26, uint64(n.lonOffsetRaw))
	setBits(&word0, 26, 26, uint64(n.latOffsetRaw))
	setBits(&word0, 52, 12, uint64(n.AccessMask))
	le.PutUint64(b[0:8], word0)

	var word1 uint64
	setBits(&word1, 0, 21, uint64(n.EdgeIndex))
	setBits(&word1, 21, 21, uint64(n.TransitionIndex))
	setBits(&word1, 42, 12, uint64(n.AdminIndex))
	setBits(&word1, 54, 9, uint64(n.TimeZoneIndex))
	setBoolBit(&word1, 63, n.TimeZoneExt)
	le.PutUint64(b[8:16], word1)

	var word2 uint64
	setBits(&word2, 0, 7, uint64(n.EdgeCount))
	setBits(&word2, 7, 7, uint64(n.Flags))
	setBits(&word2, 14, 4, uint64(n.IntersectionType))
	setBits(&word2, 18, 4, uint64(n.NodeType))
	setBits(&word2, 22, 4, uint64(n.Density))
	setBits(&word2, 26, 15, uint64(n.ElevationRaw))
	setBits(&word2, 41, 3, uint64(n.TransitionCount))
	setBits(&word2, 44, 16, uint64(n.LocalDriveability))
	setBits(&word2, 60, 3, uint64(n.LocalEdgeCount))
	setBoolBit(&word2, 63, n.LocalEdgeCountExt)
	le.PutUint64(b[16:24], word2)

	var headings uint64
	for i, h := range n.Headings {
		setBits(&headings, uint(i*8), 8, uint64(h))
	}
	le.PutUint64(b[24:32], headings)

	return b
}

// NodeTransitionSize is the fixed on-disk size of one NodeTransition record.
const NodeTransitionSize = 8

// NodeTransition links a node to its equivalent node on a different level.
type NodeTransition struct {
	EndNodeID graphid.GraphId
	Up        bool
}

// DecodeNodeTransition parses a single NodeTransition record.
func DecodeNodeTransition(b []byte) (NodeTransition, error) {
	if len(b) < NodeTransitionSize {
		return NodeTransition{}, &SliceLengthError{"node_transition", NodeTransitionSize, len(b)}
	}
	word := binary.LittleEndian.Uint64(b[0:8])
	gid, err := graphid.TryFromID(getBits(word, 0, 46))
	if err != nil {
		return NodeTransition{}, &InvalidGraphIdError{Reason: err.Error()}
	}
	return NodeTransition{
		EndNodeID: gid,
		Up:        boolBit(word, 46),
	}, nil
}

// Encode serializes t to its fixed 8-byte on-disk form.
func (t NodeTransition) Encode() []byte {
	b := make([]byte, NodeTransitionSize)
	var word uint64
	setBits(&word, 0, 46, t.EndNodeID.Value())
	setBoolBit(&word, 46, t.Up)
	binary.LittleEndian.PutUint64(b, word)
	return b
}
