package graphtile

import (
	"math"
	"testing"

	"github.com/routetiles/graphtile/graphid"
)

func TestNodeInfoRoundTrip(t *testing.T) {
	n := NodeInfo{
		AccessMask:        0xABC,
		EdgeIndex:         12345,
		TransitionIndex:   54321,
		AdminIndex:        7,
		TimeZoneIndex:     300,
		TimeZoneExt:       true,
		EdgeCount:         5,
		Flags:             NodeFlagTrafficSignal | NodeFlagDriveOnRight,
		IntersectionType:  3,
		NodeType:          2,
		Density:           9,
		ElevationRaw:      1234,
		TransitionCount:   4,
		LocalDriveability: 0xBEEF,
		LocalEdgeCount:    6,
		LocalEdgeCountExt: true,
		Headings:          [8]uint8{1, 2, 3, 4, 5, 6, 7, 8},
	}
	n.lonOffsetRaw = encodeLatLonOffset(0.0012345)
	n.latOffsetRaw = encodeLatLonOffset(0.05)

	raw := n.Encode()
	if len(raw) != NodeInfoSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(raw), NodeInfoSize)
	}
	got, err := DecodeNodeInfo(raw)
	if err != nil {
		t.Fatalf("DecodeNodeInfo: %v", err)
	}
	if got != n {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", n, got)
	}
	if math.Abs(got.LonOffset()-0.0012345) > 1e-9 {
		t.Errorf("LonOffset() = %v, want 0.0012345", got.LonOffset())
	}
}

func TestNodeInfoTooShort(t *testing.T) {
	if _, err := DecodeNodeInfo(make([]byte, NodeInfoSize-1)); err == nil {
		t.Fatal("want error decoding truncated node info")
	}
}

func TestNodeElevation(t *testing.T) {
	n := NodeInfo{ElevationRaw: 2000}
	if got, want := n.Elevation(), -500+0.25*2000; got != want {
		t.Errorf("Elevation() = %v, want %v", got, want)
	}
}

func TestNodeLonLat(t *testing.T) {
	h := Header{SWCornerLon: -122, SWCornerLat: 37}
	n := NodeInfo{}
	n.lonOffsetRaw = encodeLatLonOffset(0.5)
	n.latOffsetRaw = encodeLatLonOffset(0.25)
	lon, lat := n.LonLat(h)
	if math.Abs(lon-(-121.5)) > 1e-6 {
		t.Errorf("lon = %v, want ~-121.5", lon)
	}
	if math.Abs(lat-37.25) > 1e-6 {
		t.Errorf("lat = %v, want ~37.25", lat)
	}
}

func TestNodeHeadingDegrees(t *testing.T) {
	n := NodeInfo{Headings: [8]uint8{0, 255}}
	if got := n.HeadingDegrees(0); got != 0 {
		t.Errorf("heading 0 = %v, want 0", got)
	}
	if got := n.HeadingDegrees(1); got != 359 {
		t.Errorf("heading 255 = %v, want 359", got)
	}
}

func TestNodeTransitionRoundTrip(t *testing.T) {
	id, err := graphid.TryFromComponents(1, 500, 20)
	if err != nil {
		t.Fatalf("TryFromComponents: %v", err)
	}
	nt := NodeTransition{EndNodeID: id, Up: true}
	got, err := DecodeNodeTransition(nt.Encode())
	if err != nil {
		t.Fatalf("DecodeNodeTransition: %v", err)
	}
	if got != nt {
		t.Errorf("round trip mismatch: want %+v, got %+v", nt, got)
	}
}

func TestNodeTransitionTooShort(t *testing.T) {
	if _, err := DecodeNodeTransition(make([]byte, NodeTransitionSize-1)); err == nil {
		t.Fatal("want error decoding truncated node transition")
	}
}
