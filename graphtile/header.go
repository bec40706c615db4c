package graphtile

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/routetiles/graphtile/graphid"
)

// HeaderSize is the fixed, on-disk size of a tile header in bytes.
const HeaderSize = 8 /*word0*/ + 8 /*sw corner*/ + 16 /*version*/ + 8 /*dataset id*/ +
	32 /*counts, 4 words*/ + 16 /*reserved*/ +
	4*7 /*6 offsets + tile_size*/ + 4*11 /*empty slots*/ + 4 /*create_date*/ + 4*25 /*bin offsets*/

// pivotDate is the reference point for Header.CreateDate: days since this
// date are stored on disk.
var pivotDate = time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)

// Header is the fixed-size section at the start of every tile blob.
type Header struct {
	GraphID            graphid.GraphId
	Density            uint8
	NameQuality        uint8
	SpeedQuality       uint8
	ExitQuality        uint8
	HasElevation       bool
	HasExtDirectedEdge bool

	SWCornerLon float32
	SWCornerLat float32

	Version [16]byte

	DatasetID uint64

	NodeCount                  uint32
	DirectedEdgeCount          uint32
	PredictedSpeedProfileCount uint32
	TransitionCount            uint32
	TurnLaneCount              uint32
	TransferCount              uint32
	DepartureCount             uint32
	StopCount                  uint32
	RouteCount                 uint32
	ScheduleCount              uint32
	SignCount                  uint32
	AccessRestrictionCount     uint32
	AdminCount                 uint32

	ComplexForwardOffset   uint32
	ComplexReverseOffset   uint32
	EdgeInfoOffset         uint32
	TextListOffset         uint32
	LaneConnectivityOffset uint32
	PredictedSpeedsOffset  uint32
	TileSize               uint32

	CreateDateDays uint32

	BinOffsets [25]uint32
}

// VersionString returns the version tag as a string, trimmed at the first
// NUL byte.
func (h Header) VersionString() string {
	n := len(h.Version)
	for i, b := range h.Version {
		if b == 0 {
			n = i
			break
		}
	}
	return string(h.Version[:n])
}

// CreateDate converts the stored day offset back to a UTC time.
func (h Header) CreateDate() time.Time {
	return pivotDate.AddDate(0, 0, int(h.CreateDateDays))
}

// DaysSincePivot computes the on-disk day count for a given UTC time.
func DaysSincePivot(t time.Time) uint32 {
	days := t.UTC().Sub(pivotDate).Hours() / 24
	if days < 0 {
		return 0
	}
	return uint32(days)
}

// DecodeHeader parses the fixed header section from the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, &SliceLengthError{"header", HeaderSize, len(b)}
	}
	le := binary.LittleEndian
	off := 0

	word0 := le.Uint64(b[off:])
	off += 8

	gid, err := graphid.TryFromID(getBits(word0, 0, 46))
	if err != nil {
		return Header{}, &InvalidGraphIdError{Reason: err.Error()}
	}

	h := Header{
		GraphID:            gid,
		Density:            uint8(getBits(word0, 46, 4)),
		NameQuality:        uint8(getBits(word0, 50, 4)),
		SpeedQuality:       uint8(getBits(word0, 54, 4)),
		ExitQuality:        uint8(getBits(word0, 58, 4)),
		HasElevation:       boolBit(word0, 62),
		HasExtDirectedEdge: boolBit(word0, 63),
	}

	h.SWCornerLon = math.Float32frombits(le.Uint32(b[off:]))
	off += 4
	h.SWCornerLat = math.Float32frombits(le.Uint32(b[off:]))
	off += 4

	copy(h.Version[:], b[off:off+16])
	off += 16

	h.DatasetID = le.Uint64(b[off:])
	off += 8

	wordA := le.Uint64(b[off:])
	off += 8
	h.NodeCount = uint32(getBits(wordA, 0, 21))
	h.DirectedEdgeCount = uint32(getBits(wordA, 21, 21))
	h.PredictedSpeedProfileCount = uint32(getBits(wordA, 42, 21))

	wordB := le.Uint64(b[off:])
	off += 8
	h.TransitionCount = uint32(getBits(wordB, 0, 22))
	h.TurnLaneCount = uint32(getBits(wordB, 22, 21))
	h.TransferCount = uint32(getBits(wordB, 43, 16))

	wordC := le.Uint64(b[off:])
	off += 8
	h.DepartureCount = uint32(getBits(wordC, 0, 24))
	h.StopCount = uint32(getBits(wordC, 24, 16))
	h.RouteCount = uint32(getBits(wordC, 40, 12))
	h.ScheduleCount = uint32(getBits(wordC, 52, 12))

	wordD := le.Uint64(b[off:])
	off += 8
	h.SignCount = uint32(getBits(wordD, 0, 24))
	h.AccessRestrictionCount = uint32(getBits(wordD, 24, 24))
	h.AdminCount = uint32(getBits(wordD, 48, 16))

	off += 16 // reserved 128 bits

	h.ComplexForwardOffset = le.Uint32(b[off:])
	off += 4
	h.ComplexReverseOffset = le.Uint32(b[off:])
	off += 4
	h.EdgeInfoOffset = le.Uint32(b[off:])
	off += 4
	h.TextListOffset = le.Uint32(b[off:])
	off += 4
	h.LaneConnectivityOffset = le.Uint32(b[off:])
	off += 4
	h.PredictedSpeedsOffset = le.Uint32(b[off:])
	off += 4
	h.TileSize = le.Uint32(b[off:])
	off += 4

	off += 4 * 11 // empty slots

	h.CreateDateDays = le.Uint32(b[off:])
	off += 4

	for i := range h.BinOffsets {
		h.BinOffsets[i] = le.Uint32(b[off:])
		off += 4
	}

	return h, nil
}

// Encode serializes the header to its fixed-size on-disk form.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian
	off := 0

	var word0 uint64
	setBits(&word0, 0, 46, h.GraphID.Value())
	setBits(&word0, 46, 4, uint64(h.Density))
	setBits(&word0, 50, 4, uint64(h.NameQuality))
	setBits(&word0, 54, 4, uint64(h.SpeedQuality))
	setBits(&word0, 58, 4, uint64(h.ExitQuality))
	setBoolBit(&word0, 62, h.HasElevation)
	setBoolBit(&word0, 63, h.HasExtDirectedEdge)
	le.PutUint64(b[off:], word0)
	off += 8

	le.PutUint32(b[off:], math.Float32bits(h.SWCornerLon))
	off += 4
	le.PutUint32(b[off:], math.Float32bits(h.SWCornerLat))
	off += 4

	copy(b[off:off+16], h.Version[:])
	off += 16

	le.PutUint64(b[off:], h.DatasetID)
	off += 8

	var wordA uint64
	setBits(&wordA, 0, 21, uint64(h.NodeCount))
	setBits(&wordA, 21, 21, uint64(h.DirectedEdgeCount))
	setBits(&wordA, 42, 21, uint64(h.PredictedSpeedProfileCount))
	le.PutUint64(b[off:], wordA)
	off += 8

	var wordB uint64
	setBits(&wordB, 0, 22, uint64(h.TransitionCount))
	setBits(&wordB, 22, 21, uint64(h.TurnLaneCount))
	setBits(&wordB, 43, 16, uint64(h.TransferCount))
	le.PutUint64(b[off:], wordB)
	off += 8

	var wordC uint64
	setBits(&wordC, 0, 24, uint64(h.DepartureCount))
	setBits(&wordC, 24, 16, uint64(h.StopCount))
	setBits(&wordC, 40, 12, uint64(h.RouteCount))
	setBits(&wordC, 52, 12, uint64(h.ScheduleCount))
	le.PutUint64(b[off:], wordC)
	off += 8

	var wordD uint64
	setBits(&wordD, 0, 24, uint64(h.SignCount))
	setBits(&wordD, 24, 24, uint64(h.AccessRestrictionCount))
	setBits(&wordD, 48, 16, uint64(h.AdminCount))
	le.PutUint64(b[off:], wordD)
	off += 8

	off += 16 // reserved, left zero

	le.PutUint32(b[off:], h.ComplexForwardOffset)
	off += 4
	le.PutUint32(b[off:], h.ComplexReverseOffset)
	off += 4
	le.PutUint32(b[off:], h.EdgeInfoOffset)
	off += 4
	le.PutUint32(b[off:], h.TextListOffset)
	off += 4
	le.PutUint32(b[off:], h.LaneConnectivityOffset)
	off += 4
	le.PutUint32(b[off:], h.PredictedSpeedsOffset)
	off += 4
	le.PutUint32(b[off:], h.TileSize)
	off += 4

	off += 4 * 11 // empty slots, left zero

	le.PutUint32(b[off:], h.CreateDateDays)
	off += 4

	for _, v := range h.BinOffsets {
		le.PutUint32(b[off:], v)
		off += 4
	}

	return b
}
