package raster

import (
	"errors"
	"fmt"
	"math"
)

// ErrShapeMismatch is returned when two grids that must be co-registered
// differ in size, transform or reference system.
var ErrShapeMismatch = errors.New("grid shape mismatch")

// DefaultNoData is the sentinel written on export when a grid has no
// explicit one. In memory no-data cells are always NaN.
const DefaultNoData = -9999.0

// transformEpsilon is the relative tolerance used when comparing
// geotransform coefficients of two grids.
const transformEpsilon = 1e-9

// GeoRef ties a grid to the ground: a GDAL-style affine transform
// (origin, pixel size, rotation terms) plus the reference system the
// coordinates are expressed in.
type GeoRef struct {
	Transform [6]float64
	WKT       string
	EPSG      int
}

// PixelToCoord returns the projected coordinates of the center of pixel (x, y).
func (g GeoRef) PixelToCoord(x, y int) (float64, float64) {
	px := float64(x) + 0.5
	py := float64(y) + 0.5
	cx := g.Transform[0] + g.Transform[1]*px + g.Transform[2]*py
	cy := g.Transform[3] + g.Transform[4]*px + g.Transform[5]*py
	return cx, cy
}

// CoordToPixel is the inverse of PixelToCoord for north-up grids
// (no rotation terms). The returned pixel may lie outside the grid.
func (g GeoRef) CoordToPixel(cx, cy float64) (int, int) {
	x := int(math.Floor((cx - g.Transform[0]) / g.Transform[1]))
	y := int(math.Floor((cy - g.Transform[3]) / g.Transform[5]))
	return x, y
}

func (g GeoRef) sameAs(o GeoRef) bool {
	for i := range g.Transform {
		a, b := g.Transform[i], o.Transform[i]
		if a == b {
			continue
		}
		scale := math.Max(math.Abs(a), math.Abs(b))
		if math.Abs(a-b) > transformEpsilon*math.Max(scale, 1) {
			return false
		}
	}
	if g.EPSG != 0 && o.EPSG != 0 {
		return g.EPSG == o.EPSG
	}
	return g.WKT == o.WKT
}

// Grid is a rectangular block of float64 samples with a geographic
// reference. Cells holding NaN are no-data. Grids are snapshots: every
// operation on them allocates a fresh grid and leaves its inputs alone.
type Grid struct {
	width  int
	height int
	geo    GeoRef
	nodata float64
	cells  []float64
}

// NewGrid allocates a width×height grid with every cell set to no-data.
func NewGrid(width, height int, geo GeoRef) *Grid {
	if width <= 0 || height <= 0 {
		return &Grid{geo: geo, nodata: DefaultNoData}
	}
	cells := make([]float64, width*height)
	nan := math.NaN()
	for i := range cells {
		cells[i] = nan
	}
	return &Grid{
		width:  width,
		height: height,
		geo:    geo,
		nodata: DefaultNoData,
		cells:  cells,
	}
}

// NewGridFromRows builds a grid from row-major data. All rows must have
// the same length.
func NewGridFromRows(rows [][]float64, geo GeoRef) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty grid data")
	}
	height := len(rows)
	width := len(rows[0])
	g := NewGrid(width, height, geo)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", y, len(row), width)
		}
		copy(g.cells[y*width:(y+1)*width], row)
	}
	return g, nil
}

// NewLike allocates an all-no-data grid with the same shape, reference
// and sentinel as src.
func NewLike(src *Grid) *Grid {
	g := NewGrid(src.width, src.height, src.geo)
	g.nodata = src.nodata
	return g
}

// IsNoData reports whether a cell value is the no-data marker.
func IsNoData(v float64) bool {
	return math.IsNaN(v)
}

func (g *Grid) Width() int      { return g.width }
func (g *Grid) Height() int     { return g.height }
func (g *Grid) Geo() GeoRef     { return g.geo }
func (g *Grid) NoData() float64 { return g.nodata }

// SetNoDataValue changes the sentinel recorded for export. It does not
// touch cell values; in-memory no-data stays NaN.
func (g *Grid) SetNoDataValue(v float64) { g.nodata = v }

// At returns the cell value at (x, y), NaN for no-data. Out-of-range
// coordinates read as no-data.
func (g *Grid) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return math.NaN()
	}
	return g.cells[y*g.width+x]
}

// Set writes a cell value. Callers filling a freshly allocated grid use
// this; established grids are treated as immutable.
func (g *Grid) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = v
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) []float64 {
	if y < 0 || y >= g.height {
		return nil
	}
	out := make([]float64, g.width)
	copy(out, g.cells[y*g.width:(y+1)*g.width])
	return out
}

// ValidValues returns every cell that is not no-data, row by row.
func (g *Grid) ValidValues() []float64 {
	out := make([]float64, 0, len(g.cells))
	for _, v := range g.cells {
		if !IsNoData(v) {
			out = append(out, v)
		}
	}
	return out
}

// ValidCount returns how many cells hold data.
func (g *Grid) ValidCount() int {
	n := 0
	for _, v := range g.cells {
		if !IsNoData(v) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := NewLike(g)
	copy(out.cells, g.cells)
	return out
}

// Aligned checks that two grids are co-registered: same width, height,
// transform and reference system. Comparing grids that fail this check
// would silently pair up pixels from different places on the ground.
func (g *Grid) Aligned(o *Grid) error {
	if o == nil {
		return fmt.Errorf("nil grid: %w", ErrShapeMismatch)
	}
	if g.width != o.width || g.height != o.height {
		return fmt.Errorf("size %dx%d vs %dx%d: %w", g.width, g.height, o.width, o.height, ErrShapeMismatch)
	}
	if !g.geo.sameAs(o.geo) {
		return fmt.Errorf("grids cover different footprints: %w", ErrShapeMismatch)
	}
	return nil
}

// Bounds returns the grid footprint as minX, minY, maxX, maxY in the
// grid's reference system. Assumes a north-up transform.
func (g *Grid) Bounds() (minX, minY, maxX, maxY float64) {
	t := g.geo.Transform
	x0 := t[0]
	y0 := t[3]
	x1 := t[0] + t[1]*float64(g.width)
	y1 := t[3] + t[5]*float64(g.height)
	return math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)
}
