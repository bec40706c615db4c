package graphtile

import "testing"

func TestTurnLaneRoundTrip(t *testing.T) {
	tl := TurnLane{
		EdgeIndex:    0x2ABCDE,
		DirectionTag: 200,
		IsRouteNum:   true,
		IsTextTagged: false,
		TextOffset:   9999,
	}
	got, err := DecodeTurnLane(tl.Encode())
	if err != nil {
		t.Fatalf("DecodeTurnLane: %v", err)
	}
	if got != tl {
		t.Errorf("round trip mismatch: want %+v, got %+v", tl, got)
	}
}

func TestTurnLaneTooShort(t *testing.T) {
	if _, err := DecodeTurnLane(make([]byte, TurnLaneSize-1)); err == nil {
		t.Fatal("want error decoding truncated turn lane")
	}
}
