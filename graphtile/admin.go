package graphtile

import "encoding/binary"

// AdminSize is the fixed on-disk size of one Admin record (13 data bytes,
// padded to a 4-byte-aligned 16).
const AdminSize = 16

// Admin is an administrative region (country or state/province) referenced
// by nodes in this tile.
type Admin struct {
	CountryNameOffset uint32
	StateNameOffset   uint32
	CountryISO        [2]byte
	StateISO          [3]byte
}

// DecodeAdmin parses a single Admin record.
func DecodeAdmin(b []byte) (Admin, error) {
	if len(b) < AdminSize {
		return Admin{}, &SliceLengthError{"admin", AdminSize, len(b)}
	}
	le := binary.LittleEndian
	var a Admin
	a.CountryNameOffset = le.Uint32(b[0:4])
	a.StateNameOffset = le.Uint32(b[4:8])
	copy(a.CountryISO[:], b[8:10])
	copy(a.StateISO[:], b[10:13])
	// b[13:16] is padding, always zero.
	return a, nil
}

// Encode serializes a to its fixed 16-byte on-disk form.
func (a Admin) Encode() []byte {
	b := make([]byte, AdminSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], a.CountryNameOffset)
	le.PutUint32(b[4:8], a.StateNameOffset)
	copy(b[8:10], a.CountryISO[:])
	copy(b[10:13], a.StateISO[:])
	return b
}
