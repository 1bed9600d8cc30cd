package landsat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSceneID(t *testing.T) {
	scene, err := ParseSceneID("LC08_L2SP_137044_20140128_20200912_02_T1")
	require.NoError(t, err)

	assert.Equal(t, 8, scene.Satellite)
	assert.Equal(t, "L2SP", scene.Level)
	assert.Equal(t, 137, scene.Path)
	assert.Equal(t, 44, scene.Row)
	assert.Equal(t, time.Date(2014, 1, 28, 0, 0, 0, 0, time.UTC), scene.AcquiredAt)
	assert.Equal(t, time.Date(2020, 9, 12, 0, 0, 0, 0, time.UTC), scene.ProcessedAt)
	assert.Equal(t, "02", scene.Collection)
	assert.Equal(t, "T1", scene.Tier)
}

func TestParseSceneIDLandsat9(t *testing.T) {
	scene, err := ParseSceneID("LC09_L2SR_137044_20220214_20220216_02_T2")
	require.NoError(t, err)
	assert.Equal(t, 9, scene.Satellite)
	assert.Equal(t, "L2SR", scene.Level)
	assert.Equal(t, "T2", scene.Tier)
}

func TestParseSceneIDRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		id   string
	}{
		{"too few parts", "LC08_L2SP_137044_20140128"},
		{"not landsat 8/9", "LT05_L2SP_137044_20140128_20200912_02_T1"},
		{"level 1 product", "LC08_L1TP_137044_20140128_20200912_02_T1"},
		{"bad path row", "LC08_L2SP_13704_20140128_20200912_02_T1"},
		{"bad acquisition date", "LC08_L2SP_137044_20141328_20200912_02_T1"},
		{"bad tier", "LC08_L2SP_137044_20140128_20200912_02_T9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSceneID(tc.id)
			assert.Error(t, err)
		})
	}
}

func TestBandFileName(t *testing.T) {
	scene, err := ParseSceneID("LC08_L2SP_137044_20140128_20200912_02_T1")
	require.NoError(t, err)

	assert.Equal(t, "LC08_L2SP_137044_20140128_20200912_02_T1_SR_B4.TIF", scene.BandFileName(BandRed))
	assert.Equal(t, "LC08_L2SP_137044_20140128_20200912_02_T1_SR_B5.TIF", scene.BandFileName(BandNIR))
	assert.Equal(t, "LC08_L2SP_137044_20140128_20200912_02_T1_QA_PIXEL.TIF", scene.BandFileName(BandQA))
}

func TestRemotePath(t *testing.T) {
	scene, err := ParseSceneID("LC08_L2SP_137044_20140128_20200912_02_T1")
	require.NoError(t, err)

	want := "collection02/level-2/standard/oli-tirs/2014/137/044/" +
		"LC08_L2SP_137044_20140128_20200912_02_T1/LC08_L2SP_137044_20140128_20200912_02_T1_SR_B5.TIF"
	assert.Equal(t, want, scene.RemotePath(BandNIR))
}
