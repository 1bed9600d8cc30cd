package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
	"github.com/greenpulse/greenpulse-cli/internal/utils"
)

// WriteGeoTIFF saves a grid as a single-band compressed GeoTIFF. No-data
// cells are written as the grid's sentinel value and the band nodata is
// set to match, so GIS tools null them back out on read.
func WriteGeoTIFF(g *raster.Grid, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}

	var writeErr error
	utils.ExecuteWithMutex(func() {
		godal.RegisterInternalDrivers()
		ds, err := godal.Create(godal.GTiff, outputPath, 1, godal.Float32,
			g.Width(), g.Height(),
			godal.CreationOption("COMPRESS=LZW"),
			godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
				if ec <= godal.CE_Warning {
					return nil
				}
				return errors.New(msg)
			}))
		if err != nil {
			writeErr = fmt.Errorf("error creating %s: %w", outputPath, err)
			return
		}

		err = writeGrid(ds, g)
		closeErr := ds.Close()
		if err == nil {
			err = closeErr
		}
		writeErr = err
	})
	if writeErr != nil {
		return writeErr
	}

	fmt.Println("GeoTIFF created successfully as", outputPath)
	return nil
}

func writeGrid(ds *godal.Dataset, g *raster.Grid) error {
	if err := ds.SetGeoTransform(g.Geo().Transform); err != nil {
		return fmt.Errorf("error setting geotransform: %w", err)
	}

	sr, err := gridSpatialRef(g.Geo())
	if err != nil {
		return err
	}
	if sr != nil {
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			return fmt.Errorf("error setting projection: %w", err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(g.NoData()); err != nil {
		return fmt.Errorf("error setting nodata: %w", err)
	}

	sentinel := float32(g.NoData())
	row := make([]float32, g.Width())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				row[x] = sentinel
			} else {
				row[x] = float32(v)
			}
		}
		if err := band.Write(0, y, row, g.Width(), 1); err != nil {
			return fmt.Errorf("error writing row %d: %w", y, err)
		}
	}
	return nil
}

// gridSpatialRef builds the spatial reference recorded in a grid's
// georeferencing, nil when it carries none.
func gridSpatialRef(geo raster.GeoRef) (*godal.SpatialRef, error) {
	if geo.WKT != "" {
		sr, err := godal.NewSpatialRefFromWKT(geo.WKT)
		if err != nil {
			return nil, fmt.Errorf("error parsing projection: %w", err)
		}
		return sr, nil
	}
	if geo.EPSG != 0 {
		sr, err := godal.NewSpatialRefFromEPSG(geo.EPSG)
		if err != nil {
			return nil, fmt.Errorf("error creating EPSG:%d reference: %w", geo.EPSG, err)
		}
		return sr, nil
	}
	return nil, nil
}
