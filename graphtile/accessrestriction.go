package graphtile

import "encoding/binary"

// AccessRestrictionSize is the fixed on-disk size of one record.
const AccessRestrictionSize = 16

// AccessRestriction ties a per-mode restriction to a directed edge within
// this tile. The section is sorted ascending by EdgeIndex.
type AccessRestriction struct {
	EdgeIndex       uint32 // 22 bits
	RestrictionType AccessRestrictionType
	Modes           Access // 12 bits
	Value           uint64
}

// DecodeAccessRestriction parses a single AccessRestriction record.
func DecodeAccessRestriction(b []byte) (AccessRestriction, error) {
	if len(b) < AccessRestrictionSize {
		return AccessRestriction{}, &SliceLengthError{"access_restriction", AccessRestrictionSize, len(b)}
	}
	le := binary.LittleEndian
	word := le.Uint64(b[0:8])
	return AccessRestriction{
		EdgeIndex:       uint32(getBits(word, 0, 22)),
		RestrictionType: AccessRestrictionType(getBits(word, 22, 6)),
		Modes:           Access(getBits(word, 28, 12)),
		Value:           le.Uint64(b[8:16]),
	}, nil
}

// Encode serializes r to its fixed 16-byte on-disk form.
func (r AccessRestriction) Encode() []byte {
	b := make([]byte, AccessRestrictionSize)
	le := binary.LittleEndian
	var word uint64
	setBits(&word, 0, 22, uint64(r.EdgeIndex))
	setBits(&word, 22, 6, uint64(r.RestrictionType))
	setBits(&word, 28, 12, uint64(r.Modes))
	le.PutUint64(b[0:8], word)
	le.PutUint64(b[8:16], r.Value)
	return b
}

// HasMode reports whether the restriction applies to any mode in modes.
func (r AccessRestriction) HasMode(modes Access) bool {
	return r.Modes&modes != 0
}
