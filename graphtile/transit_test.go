package graphtile

import (
	"bytes"
	"testing"
)

func TestDecodeTransitDepartures(t *testing.T) {
	raw := make([]byte, TransitDepartureSize*2+5)
	for i := range raw {
		raw[i] = byte(i)
	}
	out, rest, err := decodeTransitDepartures(raw, 2)
	if err != nil {
		t.Fatalf("decodeTransitDepartures: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d departures, want 2", len(out))
	}
	if !bytes.Equal(out[0][:], raw[0:TransitDepartureSize]) {
		t.Errorf("departure 0 mismatch")
	}
	if !bytes.Equal(out[1][:], raw[TransitDepartureSize:2*TransitDepartureSize]) {
		t.Errorf("departure 1 mismatch")
	}
	if len(rest) != 5 {
		t.Errorf("rest length = %d, want 5", len(rest))
	}
}

func TestDecodeTransitDeparturesTooShort(t *testing.T) {
	if _, _, err := decodeTransitDepartures(make([]byte, TransitDepartureSize-1), 1); err == nil {
		t.Fatal("want error decoding truncated transit departures")
	}
}

func TestDecodeTransitStopsRoutesSchedulesTransfers(t *testing.T) {
	stops := make([]byte, TransitStopSize*3)
	if _, rest, err := decodeTransitStops(stops, 3); err != nil || len(rest) != 0 {
		t.Errorf("decodeTransitStops: rest=%d err=%v", len(rest), err)
	}

	routes := make([]byte, TransitRouteSize*2)
	if _, rest, err := decodeTransitRoutes(routes, 2); err != nil || len(rest) != 0 {
		t.Errorf("decodeTransitRoutes: rest=%d err=%v", len(rest), err)
	}

	schedules := make([]byte, TransitScheduleSize*4)
	if _, rest, err := decodeTransitSchedules(schedules, 4); err != nil || len(rest) != 0 {
		t.Errorf("decodeTransitSchedules: rest=%d err=%v", len(rest), err)
	}

	transfers := make([]byte, TransitTransferSize*5)
	if _, rest, err := decodeTransitTransfers(transfers, 5); err != nil || len(rest) != 0 {
		t.Errorf("decodeTransitTransfers: rest=%d err=%v", len(rest), err)
	}
}
