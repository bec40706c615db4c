package graphtile

import (
	"testing"

	"github.com/routetiles/graphtile/graphid"
)

func fullDirectedEdge(t *testing.T) DirectedEdge {
	t.Helper()
	id, err := graphid.TryFromComponents(1, 999, 15)
	if err != nil {
		t.Fatalf("TryFromComponents: %v", err)
	}
	return DirectedEdge{
		EndNodeID:                id,
		RestrictionsMask:         0xAB,
		OpposingEdgeIndex:        42,
		Forward:                  true,
		LeavesTile:                false,
		CountryCrossing:           true,
		EdgeInfoOffset:           1_000_000,
		AccessRestrictionsBitmap: 0x0FF,
		StartRestrictionBitmap:   0x0AA,
		EndRestrictionBitmap:     0x0BB,
		ComplexRestriction:       true,
		DestOnly:                 false,
		NoThru:                   true,
		Speed:                    65,
		FreeFlowSpeed:            70,
		ConstrainedSpeed:         55,
		TruckSpeed:               60,
		NameConsistency:          3,
		RoadUse:                  RoadUseRamp,
		LaneCount:                3,
		Density:                  8,
		RoadClass:                RoadClassPrimary,
		Surface:                  SurfaceCompacted,
		Toll:                     true,
		Roundabout:               false,
		TruckRoute:               true,
		HasPredictedSpeed:        true,
		ForwardAccess:            AccessAuto | AccessBus,
		ReverseAccess:            AccessBicycle,
		UpSlope:                  12,
		DownSlope:                9,
		SACScale:                 5,
		CycleLane:                CycleLaneSeparated,
		BikeNetwork:              true,
		Sidewalk:                 true,
		Shoulder:                 false,
		TurnLanes:                true,
		ExitSign:                 false,
		InternalIntersection:     true,
		Tunnel:                   false,
		Bridge:                   true,
		TrafficSignal:            true,
		Seasonal:                 false,
		DeadEnd:                  true,
		BSSConnection:            false,
		StopOrYield:              true,
		HOVType:                  false,
		Indoor:                   true,
		Lit:                      true,
		DestOnlyHGV:              false,
		TurnTypeMask:             0xABCDEF,
		EdgeToLeft:               17,
		LengthMeters:             123456,
		WeightedGrade:            9,
		Curvature:                7,
		StopOrLine:               0x11223344,
		LocalEdgeIndex:           3,
		LocalOppIndex:            4,
		ShortcutMask:             5,
		SupersededMask:           6,
		IsShortcut:               true,
		SpeedType:                false,
		IsNamed:                  true,
		LinkTag:                  false,
	}
}

func TestDirectedEdgeRoundTrip(t *testing.T) {
	e := fullDirectedEdge(t)
	raw := e.Encode()
	if len(raw) != DirectedEdgeSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(raw), DirectedEdgeSize)
	}
	got, err := DecodeDirectedEdge(raw)
	if err != nil {
		t.Fatalf("DecodeDirectedEdge: %v", err)
	}
	if got != e {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", e, got)
	}
}

func TestDirectedEdgeStopImpact(t *testing.T) {
	e := DirectedEdge{StopOrLine: (uint32(7) << 24) | uint32(123456)}
	stopImpact, edgeToRight := e.StopImpact()
	if stopImpact != 123456 || edgeToRight != 7 {
		t.Errorf("StopImpact() = (%d, %d), want (123456, 7)", stopImpact, edgeToRight)
	}
	if e.TransitLineID() != e.StopOrLine {
		t.Errorf("TransitLineID() = %d, want %d", e.TransitLineID(), e.StopOrLine)
	}
}

func TestDirectedEdgeTooShort(t *testing.T) {
	if _, err := DecodeDirectedEdge(make([]byte, DirectedEdgeSize-1)); err == nil {
		t.Fatal("want error decoding truncated directed edge")
	}
}

func TestDirectedEdgeExtRoundTrip(t *testing.T) {
	ext := DirectedEdgeExt{ExtendedRestrictions: 0xCAFEBABE}
	got, err := DecodeDirectedEdgeExt(ext.Encode())
	if err != nil {
		t.Fatalf("DecodeDirectedEdgeExt: %v", err)
	}
	if got != ext {
		t.Errorf("round trip mismatch: want %+v, got %+v", ext, got)
	}
}
