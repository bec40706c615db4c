// Package spatial provides small geographic helpers shared by the tile
// providers: a radius-to-bounding-box expansion, a fast squared-distance
// approximation for hot lookup paths, and bounding-box-to-tile enumeration.
//
// These generalize the teacher's 3D axis-aligned-bounding-box overlap idiom
// (OverlapBounds/OverlapQuantBounds in common.go) to 2D lon/lat boxes.
package spatial

import (
	"math"

	"github.com/arl/math32"

	"github.com/routetiles/graphtile/graphid"
	"github.com/routetiles/graphtile/tilehierarchy"
)

// earthRadiusMeters is the mean Earth radius used by the equirectangular
// approximations below; adequate for tile-sized bounding boxes, not for
// geodesic-grade distance.
const earthRadiusMeters = 6371000.0

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat, Lon float64
}

// BoundingBoxWithRadius expands center by radiusMeters in every direction,
// approximating south/north via a simple equirectangular destination-point
// calculation and scaling the longitude delta by cos(lat) to account for
// meridian convergence. The longitude components are normalized to
// [-180, 180].
func BoundingBoxWithRadius(center LatLng, radiusMeters float64) tilehierarchy.BoundingBox {
	latDeltaDeg := (radiusMeters / earthRadiusMeters) * (180.0 / math.Pi)

	latRad := center.Lat * math.Pi / 180.0
	cosLat := math.Cos(latRad)
	if cosLat < 1e-9 {
		cosLat = 1e-9
	}
	lonDeltaDeg := (radiusMeters / (earthRadiusMeters * cosLat)) * (180.0 / math.Pi)

	south := clampLat(center.Lat - latDeltaDeg)
	north := clampLat(center.Lat + latDeltaDeg)
	west := normalizeLon(center.Lon - lonDeltaDeg)
	east := normalizeLon(center.Lon + lonDeltaDeg)

	return tilehierarchy.BoundingBox{North: north, South: south, East: east, West: west}
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// SquaredDistanceApprox estimates the squared distance (in meters²)
// between a and b using an equirectangular projection scaled by the
// cosine of their average latitude. This is a fast approximation for hot
// lookup paths, not geodesic truth.
func SquaredDistanceApprox(a, b LatLng) float64 {
	avgLatRad := (a.Lat + b.Lat) / 2 * math.Pi / 180.0
	metersPerDegree := earthRadiusMeters * math.Pi / 180.0

	dLat := float32((b.Lat - a.Lat) * metersPerDegree)
	dLon := float32((b.Lon - a.Lon) * metersPerDegree * math.Cos(avgLatRad))

	return float64(math32.Sqr(dLat) + math32.Sqr(dLon))
}

// TilesForBoundingBox enumerates the base GraphIds (index 0) of every tile
// row/column in level's tiling system that intersects bbox, honoring the
// tiling system's wrap_x flag for longitude wraparound.
func TilesForBoundingBox(level tilehierarchy.Level, bbox tilehierarchy.BoundingBox) []graphid.GraphId {
	ts := level.Tiling

	minRow, minCol := ts.RowCol(bbox.West, bbox.South)
	maxRow, maxCol := ts.RowCol(bbox.East, bbox.North)

	clampRow := func(r int) int {
		if r < 0 {
			return 0
		}
		if r >= ts.Rows {
			return ts.Rows - 1
		}
		return r
	}
	minRow, maxRow = clampRow(minRow), clampRow(maxRow)

	var out []graphid.GraphId
	if !ts.WrapX || minCol <= maxCol {
		clampCol := func(c int) int {
			if c < 0 {
				return 0
			}
			if c >= ts.Cols {
				return ts.Cols - 1
			}
			return c
		}
		minCol, maxCol = clampCol(minCol), clampCol(maxCol)
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				if id, err := graphid.TryFromComponents(level.Level, ts.TileID(row, col), 0); err == nil {
					out = append(out, id)
				}
			}
		}
		return out
	}

	// minCol > maxCol: the box crosses the antimeridian. Walk columns
	// modulo ts.Cols from minCol to maxCol instead of clamping.
	normCol := func(c int) int {
		c %= ts.Cols
		if c < 0 {
			c += ts.Cols
		}
		return c
	}
	span := maxCol - minCol
	if span < 0 {
		span += ts.Cols
	}
	for row := minRow; row <= maxRow; row++ {
		for i := 0; i <= span; i++ {
			col := normCol(minCol + i)
			if id, err := graphid.TryFromComponents(level.Level, ts.TileID(row, col), 0); err == nil {
				out = append(out, id)
			}
		}
	}
	return out
}
