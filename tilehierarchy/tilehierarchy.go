// Package tilehierarchy describes the fixed table of tile levels that
// partition the routable graph: highway, arterial, local, and transit.
package tilehierarchy

import "math"

// RoadClass mirrors the subset of graphtile's RoadClass enum referenced as
// each level's minimum road class. Duplicated here (rather than imported)
// so that this package imports no other package of the module.
type RoadClass uint8

const (
	RoadClassMotorway RoadClass = iota
	RoadClassTrunk
	RoadClassPrimary
	RoadClassSecondary
	RoadClassTertiary
	RoadClassUnclassified
	RoadClassResidential
	RoadClassServiceOther
)

// BoundingBox is a lon/lat box in degrees, (north, east, south, west) order.
type BoundingBox struct {
	North, East, South, West float64
}

// TilingSystem describes how a level's bounding box is subdivided into
// rows and columns of fixed-size tiles.
type TilingSystem struct {
	BBox            BoundingBox
	TileSideLength  float64 // degrees
	Rows, Cols      int
	Subdivisions    int
	WrapX           bool
}

// RowCol returns the tile row/col containing the given lon/lat point.
func (ts TilingSystem) RowCol(lon, lat float64) (row, col int) {
	col = int(math.Floor((lon - ts.BBox.West) / ts.TileSideLength))
	row = int(math.Floor((lat - ts.BBox.South) / ts.TileSideLength))
	return row, col
}

// TileID returns the row-major tile index for a row/col pair.
func (ts TilingSystem) TileID(row, col int) uint32 {
	return uint32(row*ts.Cols + col)
}

// MaxTileID returns the largest valid tile id for this tiling system.
func (ts TilingSystem) MaxTileID() uint32 {
	return uint32(ts.Rows*ts.Cols) - 1
}

// Level describes one level of the hierarchy.
type Level struct {
	Level             uint32
	Name              string
	MinimumRoadClass  RoadClass
	Tiling            TilingSystem
}

// MinZoom returns the minimum web-mercator zoom level at which this graph
// level becomes relevant, a coarse heuristic used by importers: lower
// graph levels (higher-class roads) are shown at lower zoom.
func (l Level) MinZoom() float64 {
	switch l.Level {
	case 0:
		return 0
	case 1:
		return 8
	case 2:
		return 12
	default:
		return 14
	}
}

const worldBBoxWest, worldBBoxSouth, worldBBoxEast, worldBBoxNorth = -180, -90, 180, 90

func worldBBox() BoundingBox {
	return BoundingBox{North: worldBBoxNorth, East: worldBBoxEast, South: worldBBoxSouth, West: worldBBoxWest}
}

func tilingFor(sideLength float64) TilingSystem {
	cols := int(math.Round(360.0 / sideLength))
	rows := int(math.Round(180.0 / sideLength))
	return TilingSystem{
		BBox:           worldBBox(),
		TileSideLength: sideLength,
		Rows:           rows,
		Cols:           cols,
		Subdivisions:   5,
		WrapX:          true,
	}
}

// Highway is level 0: the coarsest, motorway/primary-only level.
var Highway = Level{
	Level:            0,
	Name:             "highway",
	MinimumRoadClass: RoadClassPrimary,
	Tiling:           tilingFor(4.0),
}

// Arterial is level 1.
var Arterial = Level{
	Level:            1,
	Name:             "arterial",
	MinimumRoadClass: RoadClassTertiary,
	Tiling:           tilingFor(1.0),
}

// Local is level 2: every routable edge.
var Local = Level{
	Level:            2,
	Name:             "local",
	MinimumRoadClass: RoadClassServiceOther,
	Tiling:           tilingFor(0.25),
}

// Transit is level 3, sharing Local's tile geometry.
var Transit = Level{
	Level:            3,
	Name:             "transit",
	MinimumRoadClass: RoadClassServiceOther,
	Tiling:           tilingFor(0.25),
}

// StandardLevels are the three routable road levels (excludes Transit),
// in ascending level order.
var StandardLevels = []Level{Highway, Arterial, Local}

// AllLevels are every defined level, including Transit.
var AllLevels = []Level{Highway, Arterial, Local, Transit}

// ByLevel looks up a Level by its numeric level, reporting ok=false if
// no such level is defined.
func ByLevel(level uint32) (Level, bool) {
	for _, l := range AllLevels {
		if l.Level == level {
			return l, true
		}
	}
	return Level{}, false
}
