package graphtile

import "testing"

func TestAdminRoundTrip(t *testing.T) {
	a := Admin{
		CountryNameOffset: 100,
		StateNameOffset:   200,
		CountryISO:        [2]byte{'U', 'S'},
		StateISO:          [3]byte{'C', 'A', 0},
	}
	got, err := DecodeAdmin(a.Encode())
	if err != nil {
		t.Fatalf("DecodeAdmin: %v", err)
	}
	if got != a {
		t.Errorf("round trip mismatch: want %+v, got %+v", a, got)
	}
}

func TestAdminTooShort(t *testing.T) {
	if _, err := DecodeAdmin(make([]byte, AdminSize-1)); err == nil {
		t.Fatal("want error decoding truncated admin")
	}
}
