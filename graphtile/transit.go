package graphtile

// Transit sub-records are round-tripped as opaque fixed-size byte arrays:
// the tile format reserves their regions and counts, but this repo does
// not interpret timetable semantics (a stated Non-goal). Exposing them as
// typed, fixed-size slices lets callers and exporters reach the bytes
// without hand-rolling section math.

const (
	TransitDepartureSize = 24
	TransitStopSize      = 8
	TransitRouteSize     = 40
	TransitScheduleSize  = 16
	TransitTransferSize  = 12
)

// TransitDeparture is an opaque, fixed-size departure record.
type TransitDeparture [TransitDepartureSize]byte

// TransitStop is an opaque, fixed-size stop record.
type TransitStop [TransitStopSize]byte

// TransitRoute is an opaque, fixed-size route record.
type TransitRoute [TransitRouteSize]byte

// TransitSchedule is an opaque, fixed-size schedule record.
type TransitSchedule [TransitScheduleSize]byte

// TransitTransfer is an opaque, fixed-size transfer record.
type TransitTransfer [TransitTransferSize]byte

func decodeTransitDepartures(b []byte, count uint32) ([]TransitDeparture, []byte, error) {
	n := int(count) * TransitDepartureSize
	if len(b) < n {
		return nil, nil, &SliceLengthError{"transit_departure", n, len(b)}
	}
	out := make([]TransitDeparture, count)
	for i := range out {
		copy(out[i][:], b[i*TransitDepartureSize:(i+1)*TransitDepartureSize])
	}
	return out, b[n:], nil
}

func decodeTransitStops(b []byte, count uint32) ([]TransitStop, []byte, error) {
	n := int(count) * TransitStopSize
	if len(b) < n {
		return nil, nil, &SliceLengthError{"transit_stop", n, len(b)}
	}
	out := make([]TransitStop, count)
	for i := range out {
		copy(out[i][:], b[i*TransitStopSize:(i+1)*TransitStopSize])
	}
	return out, b[n:], nil
}

func decodeTransitRoutes(b []byte, count uint32) ([]TransitRoute, []byte, error) {
	n := int(count) * TransitRouteSize
	if len(b) < n {
		return nil, nil, &SliceLengthError{"transit_route", n, len(b)}
	}
	out := make([]TransitRoute, count)
	for i := range out {
		copy(out[i][:], b[i*TransitRouteSize:(i+1)*TransitRouteSize])
	}
	return out, b[n:], nil
}

func decodeTransitSchedules(b []byte, count uint32) ([]TransitSchedule, []byte, error) {
	n := int(count) * TransitScheduleSize
	if len(b) < n {
		return nil, nil, &SliceLengthError{"transit_schedule", n, len(b)}
	}
	out := make([]TransitSchedule, count)
	for i := range out {
		copy(out[i][:], b[i*TransitScheduleSize:(i+1)*TransitScheduleSize])
	}
	return out, b[n:], nil
}

func decodeTransitTransfers(b []byte, count uint32) ([]TransitTransfer, []byte, error) {
	n := int(count) * TransitTransferSize
	if len(b) < n {
		return nil, nil, &SliceLengthError{"transit_transfer", n, len(b)}
	}
	out := make([]TransitTransfer, count)
	for i := range out {
		copy(out[i][:], b[i*TransitTransferSize:(i+1)*TransitTransferSize])
	}
	return out, b[n:], nil
}
