package graphtile

import (
	"testing"
	"time"

	"github.com/routetiles/graphtile/graphid"
)

func testGraphID(t *testing.T) graphid.GraphId {
	t.Helper()
	id, err := graphid.TryFromComponents(2, 12345, 0)
	if err != nil {
		t.Fatalf("TryFromComponents: %v", err)
	}
	return id
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		GraphID:            testGraphID(t),
		Density:            7,
		NameQuality:        3,
		SpeedQuality:       1,
		ExitQuality:        9,
		HasElevation:       true,
		HasExtDirectedEdge: false,
		SWCornerLon:        -122.5,
		SWCornerLat:        37.25,
		DatasetID:          0xdeadbeef,
		NodeCount:          100,
		DirectedEdgeCount:  200,
		SignCount:          5,
		CreateDateDays:     4000,
	}
	copy(h.Version[:], "1.2.3")
	h.BinOffsets[0] = 111
	h.BinOffsets[24] = 222

	raw := h.Encode()
	if len(raw) != HeaderSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(raw), HeaderSize)
	}

	got, err := DecodeHeader(raw)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", h, got)
	}
	if got.VersionString() != "1.2.3" {
		t.Errorf("VersionString() = %q, want %q", got.VersionString(), "1.2.3")
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("want error decoding truncated header")
	}
}

func TestDaysSincePivot(t *testing.T) {
	if got := DaysSincePivot(pivotDate); got != 0 {
		t.Errorf("DaysSincePivot(pivot) = %d, want 0", got)
	}
	later := pivotDate.AddDate(0, 0, 10)
	if got := DaysSincePivot(later); got != 10 {
		t.Errorf("DaysSincePivot(pivot+10d) = %d, want 10", got)
	}
	before := pivotDate.Add(-time.Hour)
	if got := DaysSincePivot(before); got != 0 {
		t.Errorf("DaysSincePivot(before pivot) = %d, want 0 (clamped)", got)
	}
}

func TestHeaderCreateDate(t *testing.T) {
	h := Header{CreateDateDays: 30}
	want := pivotDate.AddDate(0, 0, 30)
	if got := h.CreateDate(); !got.Equal(want) {
		t.Errorf("CreateDate() = %v, want %v", got, want)
	}
}
