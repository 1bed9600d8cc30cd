package raster

import "fmt"

// Crop returns the w×h subwindow of g whose top-left pixel is (x0, y0).
// The transform origin shifts so every kept pixel stays on the same
// spot on the ground.
func Crop(g *Grid, x0, y0, w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("crop window %dx%d is empty", w, h)
	}
	if x0 < 0 || y0 < 0 || x0+w > g.Width() || y0+h > g.Height() {
		return nil, fmt.Errorf("crop window %dx%d at (%d,%d) falls outside grid %dx%d",
			w, h, x0, y0, g.Width(), g.Height())
	}

	geo := g.Geo()
	t := geo.Transform
	geo.Transform[0] = t[0] + t[1]*float64(x0) + t[2]*float64(y0)
	geo.Transform[3] = t[3] + t[4]*float64(x0) + t[5]*float64(y0)

	out := NewGrid(w, h, geo)
	out.SetNoDataValue(g.NoData())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, g.At(x0+x, y0+y))
		}
	}
	return out, nil
}
