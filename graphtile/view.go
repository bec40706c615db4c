package graphtile

import (
	"encoding/binary"
	"sort"

	"github.com/routetiles/graphtile/graphid"
	"github.com/routetiles/graphtile/predictedspeed"
)

// View is a parse of one tile blob. The fixed-size record sections are
// decoded into new Go values; the opaque byte regions (complex
// restrictions, edge info, text list, lane connectivity) alias the bytes
// passed to Decode. The record sections are consumed in on-disk order and
// the later regions are located by the header's offsets; any short read
// fails the whole parse.
type View struct {
	raw []byte

	Header Header

	Nodes              []NodeInfo
	NodeTransitions    []NodeTransition
	DirectedEdges      []DirectedEdge
	DirectedEdgeExts   []DirectedEdgeExt
	AccessRestrictions []AccessRestriction

	TransitDepartures []TransitDeparture
	TransitStops      []TransitStop
	TransitRoutes     []TransitRoute
	TransitSchedules  []TransitSchedule
	TransitTransfers  []TransitTransfer

	Signs     []Sign
	TurnLanes []TurnLane
	Admins    []Admin

	edgeBins []graphid.GraphId

	complexRestrictionsForward []byte
	complexRestrictionsReverse []byte
	edgeInfoMemory             []byte
	textListMemory             []byte
	laneConnectivityMemory     []byte

	predictedSpeeds *predictedspeed.Profiles
}

// Decode parses a complete tile from b.
func Decode(b []byte) (*View, error) {
	header, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}

	v := &View{raw: b, Header: header}
	pos := HeaderSize

	if v.Nodes, pos, err = decodeNodeInfos(b, pos, header.NodeCount); err != nil {
		return nil, err
	}
	if v.NodeTransitions, pos, err = decodeNodeTransitions(b, pos, header.TransitionCount); err != nil {
		return nil, err
	}
	if v.DirectedEdges, pos, err = decodeDirectedEdges(b, pos, header.DirectedEdgeCount); err != nil {
		return nil, err
	}
	if header.HasExtDirectedEdge {
		if v.DirectedEdgeExts, pos, err = decodeDirectedEdgeExts(b, pos, header.DirectedEdgeCount); err != nil {
			return nil, err
		}
	}
	if v.AccessRestrictions, pos, err = decodeAccessRestrictions(b, pos, header.AccessRestrictionCount); err != nil {
		return nil, err
	}

	return decodeRemainder(v, b, pos)
}

// decodeRemainder continues parsing after directed edges / access
// restrictions, kept in a second function to keep Decode's linear section
// walk readable despite Go's lack of multi-return reassignment sugar.
func decodeRemainder(v *View, b []byte, pos int) (*View, error) {
	var err error
	var rest []byte
	h := v.Header

	v.TransitDepartures, rest, err = decodeTransitDepartures(b[pos:], h.DepartureCount)
	if err != nil {
		return nil, err
	}
	pos = len(b) - len(rest)

	v.TransitStops, rest, err = decodeTransitStops(b[pos:], h.StopCount)
	if err != nil {
		return nil, err
	}
	pos = len(b) - len(rest)

	v.TransitRoutes, rest, err = decodeTransitRoutes(b[pos:], h.RouteCount)
	if err != nil {
		return nil, err
	}
	pos = len(b) - len(rest)

	v.TransitSchedules, rest, err = decodeTransitSchedules(b[pos:], h.ScheduleCount)
	if err != nil {
		return nil, err
	}
	pos = len(b) - len(rest)

	v.TransitTransfers, rest, err = decodeTransitTransfers(b[pos:], h.TransferCount)
	if err != nil {
		return nil, err
	}
	pos = len(b) - len(rest)

	if v.Signs, pos, err = decodeSigns(b, pos, h.SignCount); err != nil {
		return nil, err
	}
	if v.TurnLanes, pos, err = decodeTurnLanes(b, pos, h.TurnLaneCount); err != nil {
		return nil, err
	}
	if v.Admins, pos, err = decodeAdmins(b, pos, h.AdminCount); err != nil {
		return nil, err
	}

	binCount := h.BinOffsets[24]
	binBytes := int(binCount) * 8
	if len(b)-pos < binBytes {
		return nil, &SliceLengthError{"edge_bins", binBytes, len(b) - pos}
	}
	v.edgeBins = make([]graphid.GraphId, binCount)
	for i := range v.edgeBins {
		raw := binary.LittleEndian.Uint64(b[pos+i*8:])
		gid, err := graphid.TryFromID(raw)
		if err != nil {
			return nil, &InvalidGraphIdError{Reason: err.Error()}
		}
		v.edgeBins[i] = gid
	}
	pos += binBytes

	// The remaining variable-size regions are located via the header's
	// own offset fields rather than further sequential consumption.
	if h.ComplexForwardOffset > uint32(len(b)) || h.ComplexReverseOffset > uint32(len(b)) ||
		h.EdgeInfoOffset > uint32(len(b)) || h.TextListOffset > uint32(len(b)) ||
		h.LaneConnectivityOffset > uint32(len(b)) {
		return nil, &ValidityError{"header offset exceeds tile length"}
	}

	v.complexRestrictionsForward = b[h.ComplexForwardOffset:h.ComplexReverseOffset]
	v.complexRestrictionsReverse = b[h.ComplexReverseOffset:h.EdgeInfoOffset]
	v.edgeInfoMemory = b[h.EdgeInfoOffset:h.TextListOffset]
	v.textListMemory = b[h.TextListOffset:h.LaneConnectivityOffset]

	laneConnEnd := h.PredictedSpeedsOffset
	if h.PredictedSpeedProfileCount == 0 {
		laneConnEnd = h.TileSize
	}
	if laneConnEnd < h.LaneConnectivityOffset || laneConnEnd > uint32(len(b)) {
		return nil, &ValidityError{"lane connectivity region offset invalid"}
	}
	v.laneConnectivityMemory = b[h.LaneConnectivityOffset:laneConnEnd]

	if h.PredictedSpeedProfileCount > 0 {
		offsetsBytes := int(h.DirectedEdgeCount) * 4
		if int(h.PredictedSpeedsOffset)+offsetsBytes > len(b) {
			return nil, &SliceLengthError{"predicted_speed_offsets", offsetsBytes, len(b) - int(h.PredictedSpeedsOffset)}
		}
		offsets := make([]uint32, h.DirectedEdgeCount)
		for i := range offsets {
			offsets[i] = binary.LittleEndian.Uint32(b[int(h.PredictedSpeedsOffset)+i*4:])
		}
		profileStart := int(h.PredictedSpeedsOffset) + offsetsBytes
		profileCount := int(h.PredictedSpeedProfileCount) * predictedspeed.CoefficientCount
		profileBytes := profileCount * 2
		if profileStart+profileBytes > len(b) {
			return nil, &SliceLengthError{"predicted_speed_profiles", profileBytes, len(b) - profileStart}
		}
		profiles := make([]int16, profileCount)
		for i := range profiles {
			profiles[i] = int16(binary.LittleEndian.Uint16(b[profileStart+i*2:]))
		}
		v.predictedSpeeds = &predictedspeed.Profiles{Offsets: offsets, Profiles: profiles}
	}

	return v, nil
}

func decodeNodeInfos(b []byte, pos int, count uint32) ([]NodeInfo, int, error) {
	n := int(count) * NodeInfoSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"nodes", n, len(b) - pos}
	}
	out := make([]NodeInfo, count)
	for i := range out {
		ni, err := DecodeNodeInfo(b[pos+i*NodeInfoSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = ni
	}
	return out, pos + n, nil
}

func decodeNodeTransitions(b []byte, pos int, count uint32) ([]NodeTransition, int, error) {
	n := int(count) * NodeTransitionSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"node_transitions", n, len(b) - pos}
	}
	out := make([]NodeTransition, count)
	for i := range out {
		nt, err := DecodeNodeTransition(b[pos+i*NodeTransitionSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = nt
	}
	return out, pos + n, nil
}

func decodeDirectedEdges(b []byte, pos int, count uint32) ([]DirectedEdge, int, error) {
	n := int(count) * DirectedEdgeSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"directed_edges", n, len(b) - pos}
	}
	out := make([]DirectedEdge, count)
	for i := range out {
		de, err := DecodeDirectedEdge(b[pos+i*DirectedEdgeSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = de
	}
	return out, pos + n, nil
}

func decodeDirectedEdgeExts(b []byte, pos int, count uint32) ([]DirectedEdgeExt, int, error) {
	n := int(count) * DirectedEdgeExtSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"directed_edge_exts", n, len(b) - pos}
	}
	out := make([]DirectedEdgeExt, count)
	for i := range out {
		ext, err := DecodeDirectedEdgeExt(b[pos+i*DirectedEdgeExtSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = ext
	}
	return out, pos + n, nil
}

func decodeAccessRestrictions(b []byte, pos int, count uint32) ([]AccessRestriction, int, error) {
	n := int(count) * AccessRestrictionSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"access_restrictions", n, len(b) - pos}
	}
	out := make([]AccessRestriction, count)
	for i := range out {
		ar, err := DecodeAccessRestriction(b[pos+i*AccessRestrictionSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = ar
	}
	return out, pos + n, nil
}

func decodeSigns(b []byte, pos int, count uint32) ([]Sign, int, error) {
	n := int(count) * SignSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"signs", n, len(b) - pos}
	}
	out := make([]Sign, count)
	for i := range out {
		s, err := DecodeSign(b[pos+i*SignSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = s
	}
	return out, pos + n, nil
}

func decodeTurnLanes(b []byte, pos int, count uint32) ([]TurnLane, int, error) {
	n := int(count) * TurnLaneSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"turn_lanes", n, len(b) - pos}
	}
	out := make([]TurnLane, count)
	for i := range out {
		tl, err := DecodeTurnLane(b[pos+i*TurnLaneSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = tl
	}
	return out, pos + n, nil
}

func decodeAdmins(b []byte, pos int, count uint32) ([]Admin, int, error) {
	n := int(count) * AdminSize
	if len(b)-pos < n {
		return nil, 0, &SliceLengthError{"admins", n, len(b) - pos}
	}
	out := make([]Admin, count)
	for i := range out {
		a, err := DecodeAdmin(b[pos+i*AdminSize:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = a
	}
	return out, pos + n, nil
}

// GraphID returns the id of the tile this view was parsed from.
func (v *View) GraphID() graphid.GraphId { return v.Header.GraphID }

// MayContainID reports whether id could plausibly live in this tile.
func (v *View) MayContainID(id graphid.GraphId) bool {
	return id.TileBaseID() == v.Header.GraphID.TileBaseID()
}

// GetNode fetches a node by graph id.
func (v *View) GetNode(id graphid.GraphId) (*NodeInfo, error) {
	if !v.MayContainID(id) {
		return nil, &MismatchedBaseError{v.Header.GraphID, id}
	}
	idx := int(id.Index())
	if idx < 0 || idx >= len(v.Nodes) {
		return nil, &InvalidIndexError{idx, len(v.Nodes)}
	}
	return &v.Nodes[idx], nil
}

// GetDirectedEdge fetches a directed edge by graph id.
func (v *View) GetDirectedEdge(id graphid.GraphId) (*DirectedEdge, error) {
	if !v.MayContainID(id) {
		return nil, &MismatchedBaseError{v.Header.GraphID, id}
	}
	idx := int(id.Index())
	if idx < 0 || idx >= len(v.DirectedEdges) {
		return nil, &InvalidIndexError{idx, len(v.DirectedEdges)}
	}
	return &v.DirectedEdges[idx], nil
}

// GetExtDirectedEdge fetches an extended directed edge by graph id.
func (v *View) GetExtDirectedEdge(id graphid.GraphId) (*DirectedEdgeExt, error) {
	if !v.MayContainID(id) {
		return nil, &MismatchedBaseError{v.Header.GraphID, id}
	}
	idx := int(id.Index())
	if idx < 0 || idx >= len(v.DirectedEdgeExts) {
		return nil, &InvalidIndexError{idx, len(v.DirectedEdgeExts)}
	}
	return &v.DirectedEdgeExts[idx], nil
}

// Reader resolves a GraphId to the tile view containing it, unifying the
// directory and tarball providers for cross-tile lookups.
type Reader interface {
	GetTile(id graphid.GraphId) (*View, error)
}

// GetOppEdgeIndex returns the opposing edge's index within its own tile.
// When the edge's end node lies in a different tile, r is used to fetch
// that tile.
func (v *View) GetOppEdgeIndex(id graphid.GraphId, r Reader) (uint32, error) {
	edge, err := v.GetDirectedEdge(id)
	if err != nil {
		return 0, err
	}
	endTile := v
	if !v.MayContainID(edge.EndNodeID) {
		if r == nil {
			return 0, &MismatchedBaseError{v.Header.GraphID, edge.EndNodeID}
		}
		endTile, err = r.GetTile(edge.EndNodeID)
		if err != nil {
			return 0, err
		}
	}
	endNode, err := endTile.GetNode(edge.EndNodeID)
	if err != nil {
		return 0, err
	}
	return endNode.EdgeIndex + uint32(edge.OpposingEdgeIndex), nil
}

// GetAccessRestrictions returns every restriction on the given directed
// edge index that applies to any mode in accessModes.
func (v *View) GetAccessRestrictions(directedEdgeIndex uint32, accessModes Access) []*AccessRestriction {
	list := v.AccessRestrictions
	start := sort.Search(len(list), func(i int) bool {
		return list[i].EdgeIndex >= directedEdgeIndex
	})
	var out []*AccessRestriction
	for i := start; i < len(list) && list[i].EdgeIndex == directedEdgeIndex; i++ {
		if list[i].HasMode(accessModes) {
			out = append(out, &list[i])
		}
	}
	return out
}

// GetPredictedSpeed returns the predicted speed (kph) for a directed edge
// at a given time, or ok=false when no predicted-speed table exists, the
// edge has none, or the time is out of range.
func (v *View) GetPredictedSpeed(directedEdgeIndex int, secondsFromStartOfWeek uint32) (float32, bool) {
	if v.predictedSpeeds == nil {
		return 0, false
	}
	if directedEdgeIndex < 0 || directedEdgeIndex >= len(v.DirectedEdges) {
		return 0, false
	}
	if !v.DirectedEdges[directedEdgeIndex].HasPredictedSpeed {
		return 0, false
	}
	return v.predictedSpeeds.Speed(directedEdgeIndex, secondsFromStartOfWeek)
}

// GetEdgeInfo slices and parses the EdgeInfo record referenced by edge.
// edge.EdgeInfoOffset is itself relative to the start of the edge-info
// region, matching where the section boundary was cut in Decode.
func (v *View) GetEdgeInfo(edge *DirectedEdge) (*EdgeInfo, error) {
	start := int(edge.EdgeInfoOffset)
	if start < 0 || start >= len(v.edgeInfoMemory) {
		return nil, &InvalidIndexError{start, len(v.edgeInfoMemory)}
	}
	info, _, err := DecodeEdgeInfo(v.edgeInfoMemory[start:], v.textListMemory)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// EdgeBin returns the GraphIds filed into spatial bin idx (0-24).
func (v *View) EdgeBin(idx int) ([]graphid.GraphId, error) {
	if idx < 0 || idx >= 25 {
		return nil, &InvalidIndexError{idx, 25}
	}
	start := uint32(0)
	if idx > 0 {
		start = v.Header.BinOffsets[idx-1]
	}
	end := v.Header.BinOffsets[idx]
	if end < start || int(end) > len(v.edgeBins) {
		return nil, &ValidityError{"bin offsets out of range"}
	}
	return v.edgeBins[start:end], nil
}
