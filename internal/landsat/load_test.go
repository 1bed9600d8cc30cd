package landsat

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// qaClear is a QA_PIXEL word with no fill, cloud or shadow bits set.
const qaClear = 21824

func sceneGeo() raster.GeoRef {
	return raster.GeoRef{
		Transform: [6]float64{204285, 30, 0, 2723115, 0, -30},
		EPSG:      32646,
	}
}

func TestRescale(t *testing.T) {
	raw, err := raster.NewGridFromRows([][]float64{
		{7273, 43636},
		{0, math.NaN()},
	}, sceneGeo())
	require.NoError(t, err)

	out := Rescale(raw, ReflectanceScale, ReflectanceOffset, FillValue)

	assert.InDelta(t, 0.0000075, out.At(0, 0), 1e-9)
	assert.InDelta(t, 0.99999, out.At(1, 0), 1e-5)
	assert.True(t, raster.IsNoData(out.At(0, 1)), "fill value should become no-data")
	assert.True(t, raster.IsNoData(out.At(1, 1)), "no-data should stay no-data")
}

func TestApplyCloudMask(t *testing.T) {
	band, err := raster.NewGridFromRows([][]float64{
		{0.5, 0.5, 0.5},
		{0.5, 0.5, 0.5},
	}, sceneGeo())
	require.NoError(t, err)

	qa, err := raster.NewGridFromRows([][]float64{
		{qaClear, qaFill, qaDilatedCloud},
		{qaCloud, qaCloudShadow, math.NaN()},
	}, sceneGeo())
	require.NoError(t, err)

	masked, err := ApplyCloudMask(band, qa)
	require.NoError(t, err)

	assert.Equal(t, 0.5, masked.At(0, 0), "clear cell survives")
	assert.True(t, raster.IsNoData(masked.At(1, 0)), "fill bit masks")
	assert.True(t, raster.IsNoData(masked.At(2, 0)), "dilated cloud bit masks")
	assert.True(t, raster.IsNoData(masked.At(0, 1)), "cloud bit masks")
	assert.True(t, raster.IsNoData(masked.At(1, 1)), "shadow bit masks")
	assert.True(t, raster.IsNoData(masked.At(2, 1)), "missing QA masks")

	// Input stays untouched.
	assert.Equal(t, 0.5, band.At(1, 0))
}

func TestApplyCloudMaskShapeMismatch(t *testing.T) {
	band := raster.NewGrid(3, 2, sceneGeo())
	qa := raster.NewGrid(2, 2, sceneGeo())

	_, err := ApplyCloudMask(band, qa)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrShapeMismatch)
}

func TestCloudCover(t *testing.T) {
	qa, err := raster.NewGridFromRows([][]float64{
		{qaClear, qaCloud},
		{qaFill, qaCloudShadow},
	}, sceneGeo())
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, CloudCover(qa), 1e-9)
}

func TestCloudCoverAllFill(t *testing.T) {
	qa, err := raster.NewGridFromRows([][]float64{{qaFill, qaFill}}, sceneGeo())
	require.NoError(t, err)
	assert.Equal(t, 0.0, CloudCover(qa))
}

func TestScanScenes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "LC08_L2SP_137044_20140128_20200912_02_T1"), os.ModePerm))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "LC08_L2SP_137044_20200131_20200824_02_T1"), os.ModePerm))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "not-a-scene"), os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

	scenes, err := ScanScenes(dir)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	first := time.Date(2014, 1, 28, 0, 0, 0, 0, time.UTC)
	second := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "LC08_L2SP_137044_20140128_20200912_02_T1", scenes[first].ID)
	assert.Equal(t, "LC08_L2SP_137044_20200131_20200824_02_T1", scenes[second].ID)
}

func TestScanScenesMissingDir(t *testing.T) {
	_, err := ScanScenes(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
