package graphtile

import "encoding/binary"

// TurnLaneSize is the fixed on-disk size of one TurnLane record.
const TurnLaneSize = 8

// TurnLane describes one lane's permitted turn directions at an edge.
//
// It shares Sign's bitfield layout: an edge/node index, an 8-bit type
// (here, a turn-lane direction mask tag rather than a SignType), and a
// text offset for any lane-use text.
type TurnLane struct {
	EdgeIndex    uint32 // 22 bits
	DirectionTag uint8
	IsRouteNum   bool
	IsTextTagged bool
	TextOffset   uint32
}

// DecodeTurnLane parses a single TurnLane record.
func DecodeTurnLane(b []byte) (TurnLane, error) {
	if len(b) < TurnLaneSize {
		return TurnLane{}, &SliceLengthError{"turn_lane", TurnLaneSize, len(b)}
	}
	le := binary.LittleEndian
	word := le.Uint32(b[0:4])
	return TurnLane{
		EdgeIndex:    getBits32(word, 0, 22),
		DirectionTag: uint8(getBits32(word, 22, 8)),
		IsRouteNum:   getBits32(word, 30, 1) != 0,
		IsTextTagged: getBits32(word, 31, 1) != 0,
		TextOffset:   le.Uint32(b[4:8]),
	}, nil
}

// Encode serializes t to its fixed 8-byte on-disk form.
func (t TurnLane) Encode() []byte {
	b := make([]byte, TurnLaneSize)
	le := binary.LittleEndian
	var word uint32
	setBits32(&word, 0, 22, t.EdgeIndex)
	setBits32(&word, 22, 8, uint32(t.DirectionTag))
	if t.IsRouteNum {
		word |= 1 << 30
	}
	if t.IsTextTagged {
		word |= 1 << 31
	}
	le.PutUint32(b[0:4], word)
	le.PutUint32(b[4:8], t.TextOffset)
	return b
}
