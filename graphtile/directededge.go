package graphtile

import (
	"encoding/binary"

	"github.com/routetiles/graphtile/graphid"
)

// DirectedEdgeSize is the fixed on-disk size of one DirectedEdge record.
const DirectedEdgeSize = 48

// DirectedEdge describes one direction of travel along a road segment.
type DirectedEdge struct {
	EndNodeID           graphid.GraphId
	RestrictionsMask    uint8 // 8 bits
	OpposingEdgeIndex   uint8 // 7 bits, within the end node's tile
	Forward             bool
	LeavesTile           bool
	CountryCrossing      bool

	EdgeInfoOffset          uint32 // 25 bits
	AccessRestrictionsBitmap uint16 // 12 bits
	StartRestrictionBitmap   uint16 // 12 bits
	EndRestrictionBitmap     uint16 // 12 bits
	ComplexRestriction       bool
	DestOnly                 bool
	NoThru                   bool

	Speed              uint8 // kph
	FreeFlowSpeed      uint8
	ConstrainedSpeed   uint8
	TruckSpeed         uint8
	NameConsistency    uint8
	RoadUse            RoadUse
	LaneCount          uint8 // 4 bits
	Density            uint8 // 4 bits
	RoadClass          RoadClass
	Surface            Surface
	Toll               bool
	Roundabout         bool
	TruckRoute         bool
	HasPredictedSpeed  bool

	ForwardAccess Access // 12 bits
	ReverseAccess Access // 12 bits
	UpSlope       uint8  // 5 bits
	DownSlope     uint8  // 5 bits
	SACScale      uint8  // 3 bits
	CycleLane     CycleLane

	BikeNetwork         bool
	Sidewalk            bool
	Shoulder            bool
	TurnLanes           bool
	ExitSign            bool
	InternalIntersection bool
	Tunnel              bool
	Bridge              bool
	TrafficSignal       bool
	Seasonal            bool
	DeadEnd             bool
	BSSConnection       bool
	StopOrYield         bool
	HOVType             bool
	Indoor              bool
	Lit                 bool
	DestOnlyHGV         bool

	TurnTypeMask   uint32 // 24 bits
	EdgeToLeft     uint8
	LengthMeters   uint32 // 24 bits
	WeightedGrade  uint8  // 4 bits
	Curvature      uint8  // 4 bits

	// StopOrLine is the raw 32-bit union: interpret via StopImpact/
	// EdgeToRight for a normal edge, or TransitLineID for a transit edge.
	StopOrLine uint32

	LocalEdgeIndex    uint8 // 7 bits
	LocalOppIndex     uint8 // 7 bits
	ShortcutMask      uint8 // 7 bits
	SupersededMask    uint8 // 7 bits
	IsShortcut        bool
	SpeedType         bool
	IsNamed           bool
	LinkTag           bool
}

// StopImpact decodes the union word as (stop_impact, edge_to_right).
func (e DirectedEdge) StopImpact() (stopImpact uint32, edgeToRight uint8) {
	word := uint64(e.StopOrLine)
	return uint32(getBits(word, 0, 24)), uint8(getBits(word, 24, 8))
}

// TransitLineID decodes the union word as a transit line id.
func (e DirectedEdge) TransitLineID() uint32 { return e.StopOrLine }

// DecodeDirectedEdge parses a single DirectedEdge record.
func DecodeDirectedEdge(b []byte) (DirectedEdge, error) {
	if len(b) < DirectedEdgeSize {
		return DirectedEdge{}, &SliceLengthError{"directed_edge", DirectedEdgeSize, len(b)}
	}
	le := binary.LittleEndian
	word0 := le.Uint64(b[0:8])
	word1 := le.Uint64(b[8:16])
	word2 := le.Uint64(b[16:24])
	word3 := le.Uint64(b[24:32])
	word4 := le.Uint64(b[32:40])
	word5 := le.Uint64(b[40:48])

	var e DirectedEdge

	gid, err := graphid.TryFromID(getBits(word0, 0, 46))
	if err != nil {
		return DirectedEdge{}, &InvalidGraphIdError{Reason: err.Error()}
	}
	e.EndNodeID = gid
	e.RestrictionsMask = uint8(getBits(word0, 46, 8))
	e.OpposingEdgeIndex = uint8(getBits(word0, 54, 7))
	e.Forward = boolBit(word0, 61)
	e.LeavesTile = boolBit(word0, 62)
	e.CountryCrossing = boolBit(word0, 63)

	e.EdgeInfoOffset = uint32(getBits(word1, 0, 25))
	e.AccessRestrictionsBitmap = uint16(getBits(word1, 25, 12))
	e.StartRestrictionBitmap = uint16(getBits(word1, 37, 12))
	e.EndRestrictionBitmap = uint16(getBits(word1, 49, 12))
	e.ComplexRestriction = boolBit(word1, 61)
	e.DestOnly = boolBit(word1, 62)
	e.NoThru = boolBit(word1, 63)

	e.Speed = uint8(getBits(word2, 0, 8))
	e.FreeFlowSpeed = uint8(getBits(word2, 8, 8))
	e.ConstrainedSpeed = uint8(getBits(word2, 16, 8))
	e.TruckSpeed = uint8(getBits(word2, 24, 8))
	e.NameConsistency = uint8(getBits(word2, 32, 8))
	e.RoadUse = RoadUse(getBits(word2, 40, 6))
	e.LaneCount = uint8(getBits(word2, 46, 4))
	e.Density = uint8(getBits(word2, 50, 4))
	e.RoadClass = RoadClass(getBits(word2, 54, 3))
	e.Surface = Surface(getBits(word2, 57, 3))
	e.Toll = boolBit(word2, 60)
	e.Roundabout = boolBit(word2, 61)
	e.TruckRoute = boolBit(word2, 62)
	e.HasPredictedSpeed = boolBit(word2, 63)

	e.ForwardAccess = Access(getBits(word3, 0, 12))
	e.ReverseAccess = Access(getBits(word3, 12, 12))
	e.UpSlope = uint8(getBits(word3, 24, 5))
	e.DownSlope = uint8(getBits(word3, 29, 5))
	e.SACScale = uint8(getBits(word3, 34, 3))
	e.CycleLane = CycleLane(getBits(word3, 37, 2))
	flags := getBits(word3, 39, 17)
	e.BikeNetwork = flags&(1<<0) != 0
	e.Sidewalk = flags&(1<<1) != 0
	e.Shoulder = flags&(1<<2) != 0
	e.TurnLanes = flags&(1<<3) != 0
	e.ExitSign = flags&(1<<4) != 0
	e.InternalIntersection = flags&(1<<5) != 0
	e.Tunnel = flags&(1<<6) != 0
	e.Bridge = flags&(1<<7) != 0
	e.TrafficSignal = flags&(1<<8) != 0
	e.Seasonal = flags&(1<<9) != 0
	e.DeadEnd = flags&(1<<10) != 0
	e.BSSConnection = flags&(1<<11) != 0
	e.StopOrYield = flags&(1<<12) != 0
	e.HOVType = flags&(1<<13) != 0
	e.Indoor = flags&(1<<14) != 0
	e.Lit = flags&(1<<15) != 0
	e.DestOnlyHGV = flags&(1<<16) != 0

	e.TurnTypeMask = uint32(getBits(word4, 0, 24))
	e.EdgeToLeft = uint8(getBits(word4, 24, 8))
	e.LengthMeters = uint32(getBits(word4, 32, 24))
	e.WeightedGrade = uint8(getBits(word4, 56, 4))
	e.Curvature = uint8(getBits(word4, 60, 4))

	e.StopOrLine = uint32(getBits(word5, 0, 32))
	e.LocalEdgeIndex = uint8(getBits(word5, 32, 7))
	e.LocalOppIndex = uint8(getBits(word5, 39, 7))
	e.ShortcutMask = uint8(getBits(word5, 46, 7))
	e.SupersededMask = uint8(getBits(word5, 53, 7))
	edgeFlags := getBits(word5, 60, 4)
	e.IsShortcut = edgeFlags&(1<<0) != 0
	e.SpeedType = edgeFlags&(1<<1) != 0
	e.IsNamed = edgeFlags&(1<<2) != 0
	e.LinkTag = edgeFlags&(1<<3) != 0

	return e, nil
}

// Encode serializes e to its fixed on-disk form.
func (e DirectedEdge) Encode() []byte {
	b := make([]byte, DirectedEdgeSize)
	le := binary.LittleEndian

	var word0 uint64
	setBits(&word0, 0, 46, e.EndNodeID.Value())
	setBits(&word0, 46, 8, uint64(e.RestrictionsMask))
	setBits(&word0, 54, 7, uint64(e.OpposingEdgeIndex))
	setBoolBit(&word0, 61, e.Forward)
	setBoolBit(&word0, 62, e.LeavesTile)
	setBoolBit(&word0, 63, e.CountryCrossing)
	le.PutUint64(b[0:8], word0)

	var word1 uint64
	setBits(&word1, 0, 25, uint64(e.EdgeInfoOffset))
	setBits(&word1, 25, 12, uint64(e.AccessRestrictionsBitmap))
	setBits(&word1, 37, 12, uint64(e.StartRestrictionBitmap))
	setBits(&word1, 49, 12, uint64(e.EndRestrictionBitmap))
	setBoolBit(&word1, 61, e.ComplexRestriction)
	setBoolBit(&word1, 62, e.DestOnly)
	setBoolBit(&word1, 63, e.NoThru)
	le.PutUint64(b[8:16], word1)

	var word2 uint64
	setBits(&word2, 0, 8, uint64(e.Speed))
	setBits(&word2, 8, 8, uint64(e.FreeFlowSpeed))
	setBits(&word2, 16, 8, uint64(e.ConstrainedSpeed))
	setBits(&word2, 24, 8, uint64(e.TruckSpeed))
	setBits(&word2, 32, 8, uint64(e.NameConsistency))
	setBits(&word2, 40, 6, uint64(e.RoadUse))
	setBits(&word2, 46, 4, uint64(e.LaneCount))
	setBits(&word2, 50, 4, uint64(e.Density))
	setBits(&word2, 54, 3, uint64(e.RoadClass))
	setBits(&word2, 57, 3, uint64(e.Surface))
	setBoolBit(&word2, 60, e.Toll)
	setBoolBit(&word2, 61, e.Roundabout)
	setBoolBit(&word2, 62, e.TruckRoute)
	setBoolBit(&word2, 63, e.HasPredictedSpeed)
	le.PutUint64(b[16:24], word2)

	var word3 uint64
	setBits(&word3, 0, 12, uint64(e.ForwardAccess))
	setBits(&word3, 12, 12, uint64(e.ReverseAccess))
	setBits(&word3, 24, 5, uint64(e.UpSlope))
	setBits(&word3, 29, 5, uint64(e.DownSlope))
	setBits(&word3, 34, 3, uint64(e.SACScale))
	setBits(&word3, 37, 2, uint64(e.CycleLane))
	var flags uint64
	setFlag := func(bit int, v bool) {
		if v {
			flags |= 1 << uint(bit)
		}
	}
	setFlag(0, e.BikeNetwork)
	setFlag(1, e.Sidewalk)
	setFlag(2, e.Shoulder)
	setFlag(3, e.TurnLanes)
	setFlag(4, e.ExitSign)
	setFlag(5, e.InternalIntersection)
	setFlag(6, e.Tunnel)
	setFlag(7, e.Bridge)
	setFlag(8, e.TrafficSignal)
	setFlag(9, e.Seasonal)
	setFlag(10, e.DeadEnd)
	setFlag(11, e.BSSConnection)
	setFlag(12, e.StopOrYield)
	setFlag(13, e.HOVType)
	setFlag(14, e.Indoor)
	setFlag(15, e.Lit)
	setFlag(16, e.DestOnlyHGV)
	setBits(&word3, 39, 17, flags)
	le.PutUint64(b[24:32], word3)

	var word4 uint64
	setBits(&word4, 0, 24, uint64(e.TurnTypeMask))
	setBits(&word4, 24, 8, uint64(e.EdgeToLeft))
	setBits(&word4, 32, 24, uint64(e.LengthMeters))
	setBits(&word4, 56, 4, uint64(e.WeightedGrade))
	setBits(&word4, 60, 4, uint64(e.Curvature))
	le.PutUint64(b[32:40], word4)

	var word5 uint64
	setBits(&word5, 0, 32, uint64(e.StopOrLine))
	setBits(&word5, 32, 7, uint64(e.LocalEdgeIndex))
	setBits(&word5, 39, 7, uint64(e.LocalOppIndex))
	setBits(&word5, 46, 7, uint64(e.ShortcutMask))
	setBits(&word5, 53, 7, uint64(e.SupersededMask))
	var edgeFlags uint64
	if e.IsShortcut {
		edgeFlags |= 1 << 0
	}
	if e.SpeedType {
		edgeFlags |= 1 << 1
	}
	if e.IsNamed {
		edgeFlags |= 1 << 2
	}
	if e.LinkTag {
		edgeFlags |= 1 << 3
	}
	setBits(&word5, 60, 4, edgeFlags)
	le.PutUint64(b[40:48], word5)

	return b
}

// DirectedEdgeExtSize is the fixed on-disk size of one DirectedEdgeExt record.
const DirectedEdgeExtSize = 8

// DirectedEdgeExt carries additional per-edge attributes that do not fit
// in the base DirectedEdge record. A tile only carries these when the
// header's HasExtDirectedEdge bit is set, one per directed edge.
type DirectedEdgeExt struct {
	ExtendedRestrictions uint32
}

// DecodeDirectedEdgeExt parses a single DirectedEdgeExt record.
func DecodeDirectedEdgeExt(b []byte) (DirectedEdgeExt, error) {
	if len(b) < DirectedEdgeExtSize {
		return DirectedEdgeExt{}, &SliceLengthError{"directed_edge_ext", DirectedEdgeExtSize, len(b)}
	}
	return DirectedEdgeExt{
		ExtendedRestrictions: binary.LittleEndian.Uint32(b[0:4]),
	}, nil
}

// Encode serializes ext to its fixed 8-byte on-disk form.
func (ext DirectedEdgeExt) Encode() []byte {
	b := make([]byte, DirectedEdgeExtSize)
	binary.LittleEndian.PutUint32(b[0:4], ext.ExtendedRestrictions)
	return b
}
