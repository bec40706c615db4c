package graphtile

import "encoding/binary"

// SignSize is the fixed on-disk size of one Sign record.
const SignSize = 8

// Sign attaches guide/exit signage text to an edge or node.
type Sign struct {
	EdgeOrNodeIndex uint32 // 22 bits
	Type            SignType
	IsRouteNum      bool
	IsTextTagged    bool
	TextOffset      uint32
}

// DecodeSign parses a single Sign record.
func DecodeSign(b []byte) (Sign, error) {
	if len(b) < SignSize {
		return Sign{}, &SliceLengthError{"sign", SignSize, len(b)}
	}
	le := binary.LittleEndian
	word := le.Uint32(b[0:4])
	return Sign{
		EdgeOrNodeIndex: getBits32(word, 0, 22),
		Type:            SignType(getBits32(word, 22, 8)),
		IsRouteNum:      getBits32(word, 30, 1) != 0,
		IsTextTagged:    getBits32(word, 31, 1) != 0,
		TextOffset:      le.Uint32(b[4:8]),
	}, nil
}

// Encode serializes s to its fixed 8-byte on-disk form.
func (s Sign) Encode() []byte {
	b := make([]byte, SignSize)
	le := binary.LittleEndian
	var word uint32
	setBits32(&word, 0, 22, s.EdgeOrNodeIndex)
	setBits32(&word, 22, 8, uint32(s.Type))
	if s.IsRouteNum {
		word |= 1 << 30
	}
	if s.IsTextTagged {
		word |= 1 << 31
	}
	le.PutUint32(b[0:4], word)
	le.PutUint32(b[4:8], s.TextOffset)
	return b
}
