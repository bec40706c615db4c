package graphtile

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/routetiles/graphtile/shapecodec"
)

// NameInfoSize is the fixed on-disk size of one NameInfo record.
const NameInfoSize = 4

// NameInfo locates one name string in the tile's text-list memory.
type NameInfo struct {
	NameOffset      uint32 // 24 bits, into the text list
	AdditionalFields uint8 // 4 bits
	IsRouteNum      bool
	IsTagged        bool
}

// DecodeNameInfo parses a single NameInfo record.
func DecodeNameInfo(b []byte) (NameInfo, error) {
	if len(b) < NameInfoSize {
		return NameInfo{}, &SliceLengthError{"name_info", NameInfoSize, len(b)}
	}
	word := binary.LittleEndian.Uint32(b[0:4])
	return NameInfo{
		NameOffset:       getBits32(word, 0, 24),
		AdditionalFields: uint8(getBits32(word, 24, 4)),
		IsRouteNum:       getBits32(word, 28, 1) != 0,
		IsTagged:         getBits32(word, 29, 1) != 0,
	}, nil
}

// Encode serializes n to its fixed 4-byte on-disk form.
func (n NameInfo) Encode() []byte {
	b := make([]byte, NameInfoSize)
	var word uint32
	setBits32(&word, 0, 24, n.NameOffset)
	setBits32(&word, 24, 4, uint32(n.AdditionalFields))
	if n.IsRouteNum {
		word |= 1 << 28
	}
	if n.IsTagged {
		word |= 1 << 29
	}
	binary.LittleEndian.PutUint32(b, word)
	return b
}

// edgeInfoInnerSize is the 12-byte fixed prefix of an EdgeInfo record:
// way id low word (4) + first bitfield (4) + second bitfield (4).
const edgeInfoInnerSize = 12

// EdgeInfo is the variable-length per-edge metadata record: way id,
// tagged names, encoded shape, and (optionally) elevation.
type EdgeInfo struct {
	wayIDLow         uint32
	meanElevationRaw uint16
	bikeNetworkRaw   uint8
	speedLimit       uint8
	extendedWayIDLo  uint8

	nameCount           uint8
	encodedShapeSize    uint16
	extendedWayIDHi     uint8
	extendedWayIDSize   uint8
	hasElevationFlag    bool

	NameInfoList []NameInfo
	EncodedShape []byte

	extendedWayID2 uint8
	extendedWayID3 uint8

	textListMemory []byte

	shapeOnce  sync.Once
	shapeCache []shapecodec.Point
	shapeErr   error
}

// SpeedLimit returns the tagged speed limit (kph) along this edge, or 0
// if none is tagged.
func (e *EdgeInfo) SpeedLimit() uint8 { return e.speedLimit }

// BicycleNetwork returns the bicycle-network membership bitmask.
func (e *EdgeInfo) BicycleNetwork() BicycleNetwork { return BicycleNetwork(e.bikeNetworkRaw) }

// MeanElevation decodes the mean elevation in meters (quantized).
func (e *EdgeInfo) MeanElevation() float64 {
	return -500 + 0.25*float64(e.meanElevationRaw)
}

// WayID reassembles the full 64-bit OSM way id from its five stored bytes.
func (e *EdgeInfo) WayID() uint64 {
	return uint64(e.extendedWayID3)<<56 |
		uint64(e.extendedWayID2)<<48 |
		uint64(e.extendedWayIDHi)<<40 |
		uint64(e.extendedWayIDLo)<<32 |
		uint64(e.wayIDLow)
}

// Shape lazily decodes and caches the polyline geometry.
func (e *EdgeInfo) Shape() ([]shapecodec.Point, error) {
	e.shapeOnce.Do(func() {
		e.shapeCache, e.shapeErr = shapecodec.Decode(e.EncodedShape)
	})
	return e.shapeCache, e.shapeErr
}

// Names returns every untagged name for this edge, resolved against the
// tile's text-list memory.
func (e *EdgeInfo) Names() []string {
	var names []string
	for _, ni := range e.NameInfoList {
		if ni.IsTagged {
			continue
		}
		names = append(names, cowString(e.textListMemory, int(ni.NameOffset)))
	}
	return names
}

// cowString reads a NUL-terminated string starting at offset within mem.
func cowString(mem []byte, offset int) string {
	if offset < 0 || offset >= len(mem) {
		return ""
	}
	rest := mem[offset:]
	if i := strings.IndexByte(string(rest), 0); i >= 0 {
		return string(rest[:i])
	}
	return string(rest)
}

// DecodeEdgeInfo parses one EdgeInfo record from b, given the tile's
// shared text-list memory for name resolution.
func DecodeEdgeInfo(b, textListMemory []byte) (*EdgeInfo, []byte, error) {
	if len(b) < edgeInfoInnerSize {
		return nil, nil, &SliceLengthError{"edge_info", edgeInfoInnerSize, len(b)}
	}
	le := binary.LittleEndian
	wayIDLow := le.Uint32(b[0:4])
	firstBitfield := le.Uint32(b[4:8])
	secondBitfield := le.Uint32(b[8:12])
	b = b[edgeInfoInnerSize:]

	e := &EdgeInfo{
		wayIDLow:         wayIDLow,
		meanElevationRaw: uint16(getBits32(firstBitfield, 0, 12)),
		bikeNetworkRaw:   uint8(getBits32(firstBitfield, 12, 4)),
		speedLimit:       uint8(getBits32(firstBitfield, 16, 8)),
		extendedWayIDLo:  uint8(getBits32(firstBitfield, 24, 8)),

		nameCount:        uint8(getBits32(secondBitfield, 0, 4)),
		encodedShapeSize: uint16(getBits32(secondBitfield, 4, 16)),
		extendedWayIDHi:  uint8(getBits32(secondBitfield, 20, 8)),
		extendedWayIDSize: uint8(getBits32(secondBitfield, 28, 2)),
		hasElevationFlag: getBits32(secondBitfield, 30, 1) != 0,

		textListMemory: textListMemory,
	}

	nameListBytes := int(e.nameCount) * NameInfoSize
	if len(b) < nameListBytes {
		return nil, nil, &SliceLengthError{"edge_info.name_info_list", nameListBytes, len(b)}
	}
	e.NameInfoList = make([]NameInfo, e.nameCount)
	for i := range e.NameInfoList {
		ni, err := DecodeNameInfo(b[i*NameInfoSize:])
		if err != nil {
			return nil, nil, err
		}
		e.NameInfoList[i] = ni
	}
	b = b[nameListBytes:]

	shapeSize := int(e.encodedShapeSize)
	if len(b) < shapeSize {
		return nil, nil, &SliceLengthError{"edge_info.encoded_shape", shapeSize, len(b)}
	}
	e.EncodedShape = b[:shapeSize]
	b = b[shapeSize:]

	if e.extendedWayIDSize > 0 {
		if len(b) < 1 {
			return nil, nil, &SliceLengthError{"edge_info.extended_way_id_2", 1, len(b)}
		}
		e.extendedWayID2 = b[0]
		b = b[1:]
	}
	if e.extendedWayIDSize > 1 {
		if len(b) < 1 {
			return nil, nil, &SliceLengthError{"edge_info.extended_way_id_3", 1, len(b)}
		}
		e.extendedWayID3 = b[0]
		b = b[1:]
	}

	// Encoded elevation, when present, is not interpreted further (no
	// elevation lookups are in scope); its bytes are simply skipped by
	// the caller's own offset bookkeeping since its length is tile-wide,
	// not per-record.
	_ = e.hasElevationFlag

	return e, b, nil
}
