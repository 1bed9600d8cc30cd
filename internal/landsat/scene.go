package landsat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Surface-reflectance band files of a Collection 2 Level-2 scene.
const (
	BandBlue  = "SR_B2"
	BandGreen = "SR_B3"
	BandRed   = "SR_B4"
	BandNIR   = "SR_B5"
	BandQA    = "QA_PIXEL"
)

// Collection 2 Level-2 surface reflectance rescaling:
// reflectance = raw*ReflectanceScale + ReflectanceOffset. Raw 0 is fill.
const (
	ReflectanceScale  = 0.0000275
	ReflectanceOffset = -0.2
	FillValue         = 0
)

// QA_PIXEL bits that mark a cell unusable for index math.
const (
	qaFill         = 1 << 0
	qaDilatedCloud = 1 << 1
	qaCloud        = 1 << 3
	qaCloudShadow  = 1 << 4

	qaMaskBits = qaFill | qaDilatedCloud | qaCloud | qaCloudShadow
)

// Scene identifies one Landsat Collection 2 acquisition, parsed from a
// product ID such as LC08_L2SP_137044_20140128_20200912_02_T1.
type Scene struct {
	ID          string
	Satellite   int
	Level       string
	Path        int
	Row         int
	AcquiredAt  time.Time
	ProcessedAt time.Time
	Collection  string
	Tier        string
}

// ParseSceneID parses a Collection 2 Level-2 product ID.
func ParseSceneID(id string) (Scene, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 7 {
		return Scene{}, fmt.Errorf("scene ID %q has %d parts, expected 7", id, len(parts))
	}

	sensor := parts[0]
	if len(sensor) != 4 || sensor[0] != 'L' {
		return Scene{}, fmt.Errorf("scene ID %q has invalid sensor field %q", id, sensor)
	}
	sat, err := strconv.Atoi(sensor[2:])
	if err != nil || (sat != 8 && sat != 9) {
		return Scene{}, fmt.Errorf("scene ID %q is not a Landsat 8/9 product", id)
	}

	level := parts[1]
	if level != "L2SP" && level != "L2SR" {
		return Scene{}, fmt.Errorf("scene ID %q is not a Level-2 surface reflectance product (level %q)", id, level)
	}

	if len(parts[2]) != 6 {
		return Scene{}, fmt.Errorf("scene ID %q has invalid path/row field %q", id, parts[2])
	}
	path, err := strconv.Atoi(parts[2][:3])
	if err != nil {
		return Scene{}, fmt.Errorf("scene ID %q has invalid path: %w", id, err)
	}
	row, err := strconv.Atoi(parts[2][3:])
	if err != nil {
		return Scene{}, fmt.Errorf("scene ID %q has invalid row: %w", id, err)
	}

	acquired, err := time.Parse("20060102", parts[3])
	if err != nil {
		return Scene{}, fmt.Errorf("scene ID %q has invalid acquisition date: %w", id, err)
	}
	processed, err := time.Parse("20060102", parts[4])
	if err != nil {
		return Scene{}, fmt.Errorf("scene ID %q has invalid processing date: %w", id, err)
	}

	tier := parts[6]
	if tier != "T1" && tier != "T2" && tier != "RT" {
		return Scene{}, fmt.Errorf("scene ID %q has unknown tier %q", id, tier)
	}

	return Scene{
		ID:          id,
		Satellite:   sat,
		Level:       level,
		Path:        path,
		Row:         row,
		AcquiredAt:  acquired,
		ProcessedAt: processed,
		Collection:  parts[5],
		Tier:        tier,
	}, nil
}

// BandFileName returns the file name of one band of the scene, e.g.
// LC08..._SR_B4.TIF.
func (s Scene) BandFileName(band string) string {
	return fmt.Sprintf("%s_%s.TIF", s.ID, band)
}

// RemotePath returns the path of a band file under a Collection 2
// bucket layout (usgs-landsat style).
func (s Scene) RemotePath(band string) string {
	return fmt.Sprintf("collection02/level-2/standard/oli-tirs/%d/%03d/%03d/%s/%s",
		s.AcquiredAt.Year(), s.Path, s.Row, s.ID, s.BandFileName(band))
}
