package change

import (
	"sort"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// Region is a contiguous patch of significant change: cells of the same
// sign touching along edges or corners.
type Region struct {
	Cells int
	// Gain is true for vegetation gain (positive difference), false
	// for loss.
	Gain bool
	// Bounding box in grid coordinates, inclusive.
	MinX, MinY, MaxX, MaxY int
	// Centroid in grid coordinates.
	CentroidX, CentroidY float64
	// MeanChange is the mean difference over the region's cells.
	MeanChange float64
}

var neighborOffsets = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Regions labels the connected patches of a thresholded difference
// grid. Two cells belong to the same patch when they are 8-neighbors
// and their differences have the same sign. Patches with fewer than
// minCells cells are dropped. The result is sorted largest patch first.
func Regions(thresholded *raster.Grid, minCells int) []Region {
	w, h := thresholded.Width(), thresholded.Height()
	if w == 0 || h == 0 {
		return nil
	}
	if minCells < 1 {
		minCells = 1
	}

	visited := make([]bool, w*h)
	var regions []Region

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] {
				continue
			}
			seed := thresholded.At(x, y)
			if raster.IsNoData(seed) || seed == 0 {
				visited[y*w+x] = true
				continue
			}

			region := growRegion(thresholded, visited, x, y, seed > 0)
			if region.Cells >= minCells {
				regions = append(regions, region)
			}
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Cells > regions[j].Cells
	})
	return regions
}

// growRegion flood-fills one patch starting at (x0, y0), marking every
// visited cell so the scan never revisits it.
func growRegion(g *raster.Grid, visited []bool, x0, y0 int, gain bool) Region {
	w := g.Width()
	region := Region{
		Gain: gain,
		MinX: x0, MinY: y0, MaxX: x0, MaxY: y0,
	}

	var sumX, sumY, sumV float64
	queue := [][2]int{{x0, y0}}
	visited[y0*w+x0] = true

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		x, y := cell[0], cell[1]
		v := g.At(x, y)

		region.Cells++
		sumX += float64(x)
		sumY += float64(y)
		sumV += v
		if x < region.MinX {
			region.MinX = x
		}
		if x > region.MaxX {
			region.MaxX = x
		}
		if y < region.MinY {
			region.MinY = y
		}
		if y > region.MaxY {
			region.MaxY = y
		}

		for _, d := range neighborOffsets {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= g.Height() {
				continue
			}
			if visited[ny*w+nx] {
				continue
			}
			nv := g.At(nx, ny)
			if raster.IsNoData(nv) || nv == 0 || (nv > 0) != gain {
				continue
			}
			visited[ny*w+nx] = true
			queue = append(queue, [2]int{nx, ny})
		}
	}

	region.CentroidX = sumX / float64(region.Cells)
	region.CentroidY = sumY / float64(region.Cells)
	region.MeanChange = sumV / float64(region.Cells)
	return region
}
