package traffic

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		TileID:                 0x1234,
		LastUpdateEpochSeconds: 1_700_000_000,
		DirectedEdgeCount:      42,
		TileVersion:            3,
	}
	got, err := DecodeHeader(h.Encode())
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: want %+v, got %+v", h, got)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("want error decoding truncated header")
	}
}

func TestSingleSpeed(t *testing.T) {
	s := SingleSpeed(60, 10)
	overall := s.OverallSegment()
	if overall.State != SegmentSpeed || overall.SpeedKPH != 60 || overall.Congestion != 0 {
		t.Errorf("overall = %+v, want speed 60 congestion 0 (the overall reading carries no congestion)", overall)
	}
	if s.IsClosed() {
		t.Error("single speed should not be closed")
	}
	segs := s.Segments()
	if segs[0].State != SegmentSpeed || segs[0].SpeedKPH != 60 || segs[0].Congestion != 10 || segs[0].Breakpoint != 255 {
		t.Errorf("segment 0 = %+v", segs[0])
	}
	if segs[1].State != SegmentUnknown || segs[2].State != SegmentUnknown {
		t.Errorf("segments 1 and 2 should be unknown, got %+v %+v", segs[1], segs[2])
	}
}

func TestClosed(t *testing.T) {
	s := Closed()
	if !s.IsClosed() {
		t.Error("want closed")
	}
	if !s.IsSegmentClosed(0) {
		t.Error("want segment 0 closed")
	}
	if s.IsSegmentClosed(1) || s.IsSegmentClosed(2) {
		t.Error("want segments 1 and 2 unknown, not closed")
	}
}

func TestHasIncidents(t *testing.T) {
	s := SingleSpeed(50, 0)
	if s.HasIncidents() {
		t.Error("fresh speed should have no incidents flag set")
	}
}

func TestSpeedQuantization(t *testing.T) {
	// Encoding truncates to 2 kph granularity via >>1.
	s := SingleSpeed(61, 0)
	got := s.OverallSegment().SpeedKPH
	if got != 60 {
		t.Errorf("61 kph should quantize down to 60, got %d", got)
	}
}

func TestBuilderSingleSegment(t *testing.T) {
	b := NewBuilder(100)
	if err := b.WithSegment(SegmentSpeed, 40, 5, 100); err != nil {
		t.Fatalf("WithSegment: %v", err)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	overall := s.OverallSegment()
	if overall.SpeedKPH != 40 {
		t.Errorf("overall speed = %d, want 40", overall.SpeedKPH)
	}
}

func TestBuilderWeightedAverage(t *testing.T) {
	b := NewBuilder(100)
	checkt(t, b.WithSegment(SegmentSpeed, 20, 1, 25))
	checkt(t, b.WithSegment(SegmentSpeed, 60, 1, 75))
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// weighted mean = (20*25 + 60*75) / 100 = 50
	if got := s.OverallSegment().SpeedKPH; got != 50 {
		t.Errorf("overall speed = %d, want 50", got)
	}
	segs := s.Segments()
	if segs[0].Breakpoint == 0 || segs[0].Breakpoint == 255 {
		t.Errorf("first segment breakpoint should fall strictly inside the edge, got %d", segs[0].Breakpoint)
	}
}

// TestBuilderScenario6 reproduces the worked example: edge length 1000,
// two half-segments of speed 42 (light congestion) and 86 (little
// congestion) should produce overall speed 64 kph, segment 0 breakpoint
// 127, segment 1 breakpoint 255, and segment 2 with no data (breakpoint 0).
func TestBuilderScenario6(t *testing.T) {
	b := NewBuilder(1000)
	checkt(t, b.WithSegment(SegmentSpeed, 42, 20, 500))
	checkt(t, b.WithSegment(SegmentSpeed, 86, 5, 500))
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := s.OverallSegment().SpeedKPH; got != 64 {
		t.Errorf("overall speed = %d, want 64", got)
	}

	segs := s.Segments()
	if segs[0].Breakpoint != 127 {
		t.Errorf("segment 0 breakpoint = %d, want 127", segs[0].Breakpoint)
	}
	if segs[1].Breakpoint != 255 {
		t.Errorf("segment 1 breakpoint = %d, want 255", segs[1].Breakpoint)
	}
	if segs[2].State != SegmentUnknown || segs[2].Breakpoint != 0 {
		t.Errorf("segment 2 = %+v, want no-data with breakpoint 0", segs[2])
	}
}

func TestBuilderRejectsOverflow(t *testing.T) {
	b := NewBuilder(100)
	checkt(t, b.WithSegment(SegmentSpeed, 40, 0, 60))
	if err := b.WithSegment(SegmentSpeed, 40, 0, 60); err == nil {
		t.Fatal("want error when segment lengths exceed the edge length")
	}
}

func TestBuilderRejectsFourthSegment(t *testing.T) {
	b := NewBuilder(100)
	checkt(t, b.WithSegment(SegmentSpeed, 10, 0, 10))
	checkt(t, b.WithSegment(SegmentSpeed, 10, 0, 10))
	checkt(t, b.WithSegment(SegmentSpeed, 10, 0, 10))
	if err := b.WithSegment(SegmentSpeed, 10, 0, 10); err == nil {
		t.Fatal("want error adding a fourth segment")
	}
}

func TestBuilderTooFewSegments(t *testing.T) {
	b := NewBuilder(100)
	checkt(t, b.WithSegment(SegmentSpeed, 40, 0, 50))
	if _, err := b.Build(); err == nil {
		t.Fatal("want error building before segments cover the full edge")
	}
}

func TestBuilderAllUnknown(t *testing.T) {
	b := NewBuilder(50)
	checkt(t, b.WithSegment(SegmentUnknown, 0, 0, 50))
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.OverallSegment().State != SegmentUnknown {
		t.Errorf("overall state = %v, want unknown", s.OverallSegment().State)
	}
}

func checkt(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
