// Package shapecodec decodes the delta + varint encoded polylines used for
// edge shapes in a graph tile's edge-info memory.
package shapecodec

import (
	"encoding/binary"
	"fmt"
)

const decodePrecision = 1e-6

// Point is one decoded shape vertex, in (lon, lat) degrees.
type Point struct {
	Lon, Lat float64
}

// Decode consumes bytes exactly, returning an error if the varint stream is
// truncated or malformed. It must account for every byte: a partial varint
// at the end of the slice is a decode error, not silently dropped.
func Decode(b []byte) ([]Point, error) {
	pts := make([]Point, 0, len(b)/4)
	var lat, lon int64
	for len(b) > 0 {
		dlat, n := binary.Varint(b)
		if n <= 0 {
			return nil, fmt.Errorf("shapecodec: truncated or malformed varint (lat)")
		}
		b = b[n:]

		dlon, n := binary.Varint(b)
		if n <= 0 {
			return nil, fmt.Errorf("shapecodec: truncated or malformed varint (lon)")
		}
		b = b[n:]

		lat += dlat
		lon += dlon
		pts = append(pts, Point{
			Lon: float64(lon) * decodePrecision,
			Lat: float64(lat) * decodePrecision,
		})
	}
	return pts, nil
}
