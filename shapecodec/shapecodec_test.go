package shapecodec

import (
	"encoding/binary"
	"testing"
)

func encodeVarints(deltas ...int64) []byte {
	buf := make([]byte, 0, len(deltas)*binary.MaxVarintLen64)
	tmp := make([]byte, binary.MaxVarintLen64)
	for _, d := range deltas {
		n := binary.PutVarint(tmp, d)
		buf = append(buf, tmp[:n]...)
	}
	return buf
}

func TestDecodeEmpty(t *testing.T) {
	pts, err := Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 0 {
		t.Errorf("expected no points, got %d", len(pts))
	}
}

func TestDecodeSinglePoint(t *testing.T) {
	// lat delta 1_000_000 (=> 1.0 deg), lon delta 2_000_000 (=> 2.0 deg)
	b := encodeVarints(1_000_000, 2_000_000)
	pts, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	if pts[0].Lat != 1.0 || pts[0].Lon != 2.0 {
		t.Errorf("got %+v", pts[0])
	}
}

func TestDecodeAccumulatesDeltas(t *testing.T) {
	b := encodeVarints(
		1_000_000, 1_000_000, // (1, 1)
		500_000, -200_000, // (1.5, 0.8)
	)
	pts, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[1].Lat != 1.5 {
		t.Errorf("expected accumulated lat 1.5, got %v", pts[1].Lat)
	}
	want := 0.8
	if diff := pts[1].Lon - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected accumulated lon ~%v, got %v", want, pts[1].Lon)
	}
}

func TestDecodeTruncatedVarintFails(t *testing.T) {
	// A lone continuation byte can never terminate a varint.
	if _, err := Decode([]byte{0x80}); err == nil {
		t.Error("expected error for truncated varint")
	}
}

func TestDecodeOddByteForSecondVarintFails(t *testing.T) {
	b := encodeVarints(1_000_000)
	if _, err := Decode(b); err == nil {
		t.Error("expected error when lon varint is missing")
	}
}
