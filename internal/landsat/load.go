package landsat

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/airbusgeo/godal"
	"golang.org/x/sync/errgroup"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
	"github.com/greenpulse/greenpulse-cli/internal/utils"
)

// SceneGrids holds the rescaled reflectance bands of one scene.
type SceneGrids struct {
	Scene Scene
	Red   *raster.Grid
	NIR   *raster.Grid
	// CloudCover is the cloudy fraction from QA_PIXEL, 0 when the QA
	// band was absent.
	CloudCover float64
}

// LoadOptions control how raw band values become reflectance grids.
type LoadOptions struct {
	Scale     float64
	Offset    float64
	CloudMask bool
}

// DefaultLoadOptions returns the Collection 2 Level-2 rescaling with
// cloud masking enabled.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Scale: ReflectanceScale, Offset: ReflectanceOffset, CloudMask: true}
}

func openDataset(path string) (*godal.Dataset, error) {
	return godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec <= godal.CE_Warning {
			return nil
		}
		return errors.New(msg)
	}))
}

// LoadBand reads band 1 of a single-band GeoTIFF into a grid. Values
// equal to the dataset's nodata value become no-data cells. No
// rescaling is applied.
func LoadBand(path string) (*raster.Grid, error) {
	var grid *raster.Grid
	var loadErr error

	utils.ExecuteWithMutex(func() {
		godal.RegisterInternalDrivers()
		ds, err := openDataset(path)
		if err != nil {
			loadErr = fmt.Errorf("error opening %s: %w", path, err)
			return
		}
		defer ds.Close()

		structure := ds.Structure()
		width, height := structure.SizeX, structure.SizeY

		bands := ds.Bands()
		if len(bands) == 0 {
			loadErr = fmt.Errorf("no bands in %s", path)
			return
		}
		band := bands[0]
		nodata, hasNodata := band.NoData()

		gt, err := ds.GeoTransform()
		if err != nil {
			loadErr = fmt.Errorf("error reading geotransform of %s: %w", path, err)
			return
		}
		wkt := ""
		if sr := ds.SpatialRef(); sr != nil {
			wkt, err = sr.WKT()
			if err != nil {
				loadErr = fmt.Errorf("error reading projection of %s: %w", path, err)
				return
			}
		}

		grid = raster.NewGrid(width, height, raster.GeoRef{Transform: gt, WKT: wkt})
		row := make([]float64, width)
		for y := 0; y < height; y++ {
			if err := band.Read(0, y, row, width, 1); err != nil {
				loadErr = fmt.Errorf("error reading row %d of %s: %w", y, path, err)
				return
			}
			for x := 0; x < width; x++ {
				if hasNodata && row[x] == nodata {
					continue
				}
				grid.Set(x, y, row[x])
			}
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return grid, nil
}

// Rescale converts raw digital numbers to physical values with
// value*scale + offset. Cells equal to fill become no-data.
func Rescale(raw *raster.Grid, scale, offset, fill float64) *raster.Grid {
	out := raster.NewLike(raw)
	for y := 0; y < raw.Height(); y++ {
		for x := 0; x < raw.Width(); x++ {
			v := raw.At(x, y)
			if math.IsNaN(v) || v == fill {
				continue
			}
			out.Set(x, y, v*scale+offset)
		}
	}
	return out
}

// ApplyCloudMask nulls every cell of g whose QA_PIXEL value has a
// fill, cloud, dilated cloud or cloud shadow bit set.
func ApplyCloudMask(g, qa *raster.Grid) (*raster.Grid, error) {
	if err := g.Aligned(qa); err != nil {
		return nil, fmt.Errorf("cloud mask does not match band: %w", err)
	}
	out := g.Clone()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := qa.At(x, y)
			if math.IsNaN(v) || int(v)&qaMaskBits != 0 {
				out.Set(x, y, math.NaN())
			}
		}
	}
	return out, nil
}

// CloudCover returns the fraction of cells with a cloud, dilated
// cloud or cloud shadow bit set, ignoring fill.
func CloudCover(qa *raster.Grid) float64 {
	cloudy, valid := 0, 0
	for y := 0; y < qa.Height(); y++ {
		for x := 0; x < qa.Width(); x++ {
			v := qa.At(x, y)
			if math.IsNaN(v) || int(v)&qaFill != 0 {
				continue
			}
			valid++
			if int(v)&(qaDilatedCloud|qaCloud|qaCloudShadow) != 0 {
				cloudy++
			}
		}
	}
	if valid == 0 {
		return 0
	}
	return float64(cloudy) / float64(valid)
}

func loadReflectanceBand(dir string, scene Scene, band string, opts LoadOptions) (*raster.Grid, error) {
	raw, err := LoadBand(filepath.Join(dir, scene.BandFileName(band)))
	if err != nil {
		return nil, err
	}
	return Rescale(raw, opts.Scale, opts.Offset, FillValue), nil
}

// LoadScene reads the red and NIR bands of a scene from dir and
// rescales them to surface reflectance. With CloudMask set, cells
// flagged by QA_PIXEL are nulled in both bands.
func LoadScene(dir string, scene Scene, opts LoadOptions) (*SceneGrids, error) {
	red, err := loadReflectanceBand(dir, scene, BandRed, opts)
	if err != nil {
		return nil, fmt.Errorf("error loading red band of %s: %w", scene.ID, err)
	}
	nir, err := loadReflectanceBand(dir, scene, BandNIR, opts)
	if err != nil {
		return nil, fmt.Errorf("error loading NIR band of %s: %w", scene.ID, err)
	}

	cloudCover := 0.0
	if opts.CloudMask {
		qaPath := filepath.Join(dir, scene.BandFileName(BandQA))
		if _, statErr := os.Stat(qaPath); statErr == nil {
			qa, err := LoadBand(qaPath)
			if err != nil {
				return nil, fmt.Errorf("error loading QA band of %s: %w", scene.ID, err)
			}
			cloudCover = CloudCover(qa)
			if red, err = ApplyCloudMask(red, qa); err != nil {
				return nil, err
			}
			if nir, err = ApplyCloudMask(nir, qa); err != nil {
				return nil, err
			}
		} else {
			fmt.Printf("\033[33mNo QA_PIXEL band for %s, skipping cloud mask\033[0m\n", scene.ID)
		}
	}

	return &SceneGrids{Scene: scene, Red: red, NIR: nir, CloudCover: cloudCover}, nil
}

// LoadScenePair loads two scenes concurrently from their download
// directories and checks that their grids share one footprint.
func LoadScenePair(earlier, later Scene, opts LoadOptions) (*SceneGrids, *SceneGrids, error) {
	var first, second *SceneGrids

	var group errgroup.Group
	group.Go(func() error {
		grids, err := LoadScene(SceneDir(earlier), earlier, opts)
		if err != nil {
			return err
		}
		first = grids
		return nil
	})
	group.Go(func() error {
		grids, err := LoadScene(SceneDir(later), later, opts)
		if err != nil {
			return err
		}
		second = grids
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	if err := first.Red.Aligned(second.Red); err != nil {
		return nil, nil, fmt.Errorf("scenes %s and %s are not co-registered: %w", earlier.ID, later.ID, err)
	}
	return first, second, nil
}

// ScanScenes lists the scenes already downloaded under dir, keyed by
// acquisition date. Directories that are not valid scene IDs are
// skipped.
func ScanScenes(dir string) (map[time.Time]Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error listing scenes in %s: %w", dir, err)
	}

	scenes := make(map[time.Time]Scene)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		scene, err := ParseSceneID(entry.Name())
		if err != nil {
			continue
		}
		scenes[scene.AcquiredAt] = scene
	}
	return scenes, nil
}
