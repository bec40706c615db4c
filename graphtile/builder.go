package graphtile

import (
	"bytes"
	"encoding/binary"
	"time"
	"unicode/utf8"

	"github.com/routetiles/graphtile/predictedspeed"
)

// Builder holds every tile section as owned, mutable Go values copied out
// of a parsed View. Sections that are never mutated are carried through
// verbatim; Encode re-derives the header from the sections it holds, so
// an unmodified Builder reproduces its input byte for byte except for the
// header's create_date, which Encode sets to the current day.
type Builder struct {
	header             Header
	nodes              []NodeInfo
	nodeTransitions    []NodeTransition
	directedEdges      []DirectedEdge
	directedEdgeExts   []DirectedEdgeExt
	accessRestrictions []AccessRestriction

	transitDepartures []TransitDeparture
	transitStops      []TransitStop
	transitRoutes     []TransitRoute
	transitSchedules  []TransitSchedule
	transitTransfers  []TransitTransfer

	signs     []Sign
	turnLanes []TurnLane
	admins    []Admin

	edgeBins []byte // raw GraphId words, carried through unmodified

	complexRestrictionsForward []byte
	complexRestrictionsReverse []byte
	edgeInfoMemory             []byte
	textListMemory             []byte
	laneConnectivityMemory     []byte

	predictedSpeedOffsets  []uint32
	predictedSpeedProfiles []int16
}

// NewBuilder copies every section out of v into an owned Builder.
func NewBuilder(v *View) *Builder {
	b := &Builder{
		header:                     v.Header,
		nodes:                      append([]NodeInfo(nil), v.Nodes...),
		nodeTransitions:            append([]NodeTransition(nil), v.NodeTransitions...),
		directedEdges:              append([]DirectedEdge(nil), v.DirectedEdges...),
		directedEdgeExts:           append([]DirectedEdgeExt(nil), v.DirectedEdgeExts...),
		accessRestrictions:         append([]AccessRestriction(nil), v.AccessRestrictions...),
		transitDepartures:          append([]TransitDeparture(nil), v.TransitDepartures...),
		transitStops:               append([]TransitStop(nil), v.TransitStops...),
		transitRoutes:              append([]TransitRoute(nil), v.TransitRoutes...),
		transitSchedules:           append([]TransitSchedule(nil), v.TransitSchedules...),
		transitTransfers:           append([]TransitTransfer(nil), v.TransitTransfers...),
		signs:                      append([]Sign(nil), v.Signs...),
		turnLanes:                  append([]TurnLane(nil), v.TurnLanes...),
		admins:                     append([]Admin(nil), v.Admins...),
		complexRestrictionsForward: append([]byte(nil), v.complexRestrictionsForward...),
		complexRestrictionsReverse: append([]byte(nil), v.complexRestrictionsReverse...),
		edgeInfoMemory:             append([]byte(nil), v.edgeInfoMemory...),
		textListMemory:             append([]byte(nil), v.textListMemory...),
		laneConnectivityMemory:     append([]byte(nil), v.laneConnectivityMemory...),
	}
	b.edgeBins = make([]byte, len(v.edgeBins)*8)
	for i, id := range v.edgeBins {
		binary.LittleEndian.PutUint64(b.edgeBins[i*8:], id.Value())
	}
	if v.predictedSpeeds != nil {
		b.predictedSpeedOffsets = append([]uint32(nil), v.predictedSpeeds.Offsets...)
		b.predictedSpeedProfiles = append([]int16(nil), v.predictedSpeeds.Profiles...)
	}
	return b
}

// WithVersion encodes v into the fixed 16-byte version tag, zero-padded.
func (b *Builder) WithVersion(v string) error {
	if len(v) > 16 || !utf8.ValidString(v) {
		return &InvalidVersionStringError{Length: len(v)}
	}
	var tag [16]byte
	copy(tag[:], v)
	b.header.Version = tag
	return nil
}

// WithAverageSpeeds overwrites an edge's free-flow and constrained speeds.
func (b *Builder) WithAverageSpeeds(edgeIndex int, freeFlow, constrained uint8) error {
	if edgeIndex < 0 || edgeIndex >= len(b.directedEdges) {
		return &InvalidIndexError{edgeIndex, len(b.directedEdges)}
	}
	b.directedEdges[edgeIndex].FreeFlowSpeed = freeFlow
	b.directedEdges[edgeIndex].ConstrainedSpeed = constrained
	return nil
}

// WithPredictedSpeeds compresses a full week of 5-minute-bucket samples via
// DCT-II and attaches the resulting profile to edgeIndex.
func (b *Builder) WithPredictedSpeeds(edgeIndex int, samples *[predictedspeed.BucketsPerWeek]float32) error {
	coeffs := predictedspeed.CompressSpeedBuckets(samples)
	return b.insertPredictedSpeedProfile(edgeIndex, &coeffs)
}

// WithPredictedEncodedSpeeds attaches an already-compressed, base64-encoded
// profile (200 big-endian int16 coefficients) to edgeIndex.
func (b *Builder) WithPredictedEncodedSpeeds(edgeIndex int, encoded string) error {
	coeffs, err := predictedspeed.DecodeCompressedSpeeds(encoded)
	if err != nil {
		return err
	}
	return b.insertPredictedSpeedProfile(edgeIndex, coeffs)
}

func (b *Builder) insertPredictedSpeedProfile(edgeIndex int, coeffs *[predictedspeed.CoefficientCount]int16) error {
	if edgeIndex < 0 || edgeIndex >= len(b.directedEdges) {
		return &InvalidIndexError{edgeIndex, len(b.directedEdges)}
	}
	if b.predictedSpeedOffsets == nil {
		b.predictedSpeedOffsets = make([]uint32, len(b.directedEdges))
	}
	start := len(b.predictedSpeedProfiles)
	if uint64(start+predictedspeed.CoefficientCount) > uint64(MaxPredictedSpeedProfileCount)*predictedspeed.CoefficientCount {
		return &BitfieldOverflowError{Field: "predicted_speed_profile_count", Value: uint64(start / predictedspeed.CoefficientCount)}
	}
	b.predictedSpeedProfiles = append(b.predictedSpeedProfiles, coeffs[:]...)
	b.predictedSpeedOffsets[edgeIndex] = uint32(start)
	b.directedEdges[edgeIndex].HasPredictedSpeed = true
	return nil
}

// bit widths of the header's packed count fields, used to reject overflow
// in Encode before they would silently truncate.
const (
	maxNodeCount              = 1<<21 - 1
	maxDirectedEdgeCount      = 1<<21 - 1
	MaxPredictedSpeedProfileCount = 1<<21 - 1
	maxTransitionCount        = 1<<22 - 1
	maxTurnLaneCount          = 1<<21 - 1
	maxTransferCount          = 1<<16 - 1
	maxDepartureCount         = 1<<24 - 1
	maxStopCount              = 1<<16 - 1
	maxRouteCount             = 1<<12 - 1
	maxScheduleCount          = 1<<12 - 1
	maxSignCount              = 1<<24 - 1
	maxAccessRestrictionCount = 1<<24 - 1
	maxAdminCount             = 1<<16 - 1
)

func checkCount(field string, n, max int) error {
	if n > max {
		return &BitfieldOverflowError{Field: field, Value: uint64(n)}
	}
	return nil
}

// Encode serializes the builder's sections into a complete tile blob,
// recomputing every header offset, count and tile_size from scratch.
func (b *Builder) Encode() ([]byte, error) {
	if err := b.validateCounts(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	for _, n := range b.nodes {
		body.Write(n.Encode())
	}
	for _, t := range b.nodeTransitions {
		body.Write(t.Encode())
	}
	for _, e := range b.directedEdges {
		body.Write(e.Encode())
	}
	if b.header.HasExtDirectedEdge {
		for _, ext := range b.directedEdgeExts {
			body.Write(ext.Encode())
		}
	}
	for _, ar := range b.accessRestrictions {
		body.Write(ar.Encode())
	}
	for _, d := range b.transitDepartures {
		body.Write(d[:])
	}
	for _, s := range b.transitStops {
		body.Write(s[:])
	}
	for _, r := range b.transitRoutes {
		body.Write(r[:])
	}
	for _, s := range b.transitSchedules {
		body.Write(s[:])
	}
	for _, t := range b.transitTransfers {
		body.Write(t[:])
	}
	for _, s := range b.signs {
		body.Write(s.Encode())
	}
	for _, tl := range b.turnLanes {
		body.Write(tl.Encode())
	}
	for _, a := range b.admins {
		body.Write(a.Encode())
	}
	body.Write(b.edgeBins)

	complexForwardOffset := uint32(HeaderSize + body.Len())
	body.Write(b.complexRestrictionsForward)
	complexReverseOffset := uint32(HeaderSize + body.Len())
	body.Write(b.complexRestrictionsReverse)
	edgeInfoOffset := uint32(HeaderSize + body.Len())
	body.Write(b.edgeInfoMemory)
	textListOffset := uint32(HeaderSize + body.Len())
	body.Write(b.textListMemory)
	laneConnectivityOffset := uint32(HeaderSize + body.Len())
	body.Write(b.laneConnectivityMemory)

	profileCount := len(b.predictedSpeedProfiles) / predictedspeed.CoefficientCount
	var predictedSpeedsOffset uint32
	if profileCount > 0 {
		offsets := b.predictedSpeedOffsets
		if len(offsets) < len(b.directedEdges) {
			padded := make([]uint32, len(b.directedEdges))
			copy(padded, offsets)
			offsets = padded
		}
		predictedSpeedsOffset = uint32(HeaderSize + body.Len())
		for _, off := range offsets {
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], off)
			body.Write(tmp[:])
		}
		for _, c := range b.predictedSpeedProfiles {
			var tmp [2]byte
			binary.LittleEndian.PutUint16(tmp[:], uint16(c))
			body.Write(tmp[:])
		}
	}

	h := b.header
	h.NodeCount = uint32(len(b.nodes))
	h.DirectedEdgeCount = uint32(len(b.directedEdges))
	h.PredictedSpeedProfileCount = uint32(profileCount)
	h.TransitionCount = uint32(len(b.nodeTransitions))
	h.TurnLaneCount = uint32(len(b.turnLanes))
	h.TransferCount = uint32(len(b.transitTransfers))
	h.DepartureCount = uint32(len(b.transitDepartures))
	h.StopCount = uint32(len(b.transitStops))
	h.RouteCount = uint32(len(b.transitRoutes))
	h.ScheduleCount = uint32(len(b.transitSchedules))
	h.SignCount = uint32(len(b.signs))
	h.AccessRestrictionCount = uint32(len(b.accessRestrictions))
	h.AdminCount = uint32(len(b.admins))

	h.ComplexForwardOffset = complexForwardOffset
	h.ComplexReverseOffset = complexReverseOffset
	h.EdgeInfoOffset = edgeInfoOffset
	h.TextListOffset = textListOffset
	h.LaneConnectivityOffset = laneConnectivityOffset
	h.PredictedSpeedsOffset = predictedSpeedsOffset
	h.TileSize = uint32(HeaderSize + body.Len())
	h.CreateDateDays = DaysSincePivot(time.Now())

	out := make([]byte, 0, HeaderSize+body.Len())
	out = append(out, h.Encode()...)
	out = append(out, body.Bytes()...)
	return out, nil
}

func (b *Builder) validateCounts() error {
	checks := []struct {
		field string
		n, max int
	}{
		{"node_count", len(b.nodes), maxNodeCount},
		{"directed_edge_count", len(b.directedEdges), maxDirectedEdgeCount},
		{"predicted_speed_profile_count", len(b.predictedSpeedProfiles) / predictedspeed.CoefficientCount, MaxPredictedSpeedProfileCount},
		{"transition_count", len(b.nodeTransitions), maxTransitionCount},
		{"turn_lane_count", len(b.turnLanes), maxTurnLaneCount},
		{"transfer_count", len(b.transitTransfers), maxTransferCount},
		{"departure_count", len(b.transitDepartures), maxDepartureCount},
		{"stop_count", len(b.transitStops), maxStopCount},
		{"route_count", len(b.transitRoutes), maxRouteCount},
		{"schedule_count", len(b.transitSchedules), maxScheduleCount},
		{"sign_count", len(b.signs), maxSignCount},
		{"access_restriction_count", len(b.accessRestrictions), maxAccessRestrictionCount},
		{"admin_count", len(b.admins), maxAdminCount},
	}
	for _, c := range checks {
		if err := checkCount(c.field, c.n, c.max); err != nil {
			return err
		}
	}
	return nil
}
