package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/icza/mjpeg"
)

// RenderFlickerAnimation writes an AVI that alternates between two
// rendered maps, the classic way to eyeball change between dates. Each
// cycle shows the earlier frame then the later one, at two frames per
// second.
func RenderFlickerAnimation(earlierPath, laterPath, outputPath string, cycles int) error {
	if !strings.Contains(outputPath, ".avi") {
		outputPath += ".avi"
	}
	if cycles < 1 {
		cycles = 1
	}

	earlier, err := loadFrame(earlierPath)
	if err != nil {
		return err
	}
	later, err := loadFrame(laterPath)
	if err != nil {
		return err
	}
	if !earlier.Bounds().Eq(later.Bounds()) {
		return fmt.Errorf("frames have different sizes: %v vs %v", earlier.Bounds(), later.Bounds())
	}

	bounds := earlier.Bounds()
	writer, err := mjpeg.New(outputPath, int32(bounds.Dx()), int32(bounds.Dy()), 2)
	if err != nil {
		return err
	}
	defer writer.Close()

	earlierFrame, err := encodeFrame(earlier)
	if err != nil {
		return err
	}
	laterFrame, err := encodeFrame(later)
	if err != nil {
		return err
	}

	for i := 0; i < cycles; i++ {
		if err := writer.AddFrame(earlierFrame); err != nil {
			return err
		}
		if err := writer.AddFrame(laterFrame); err != nil {
			return err
		}
	}

	fmt.Println("Animation created successfully as", outputPath)
	return nil
}

func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return img, nil
}

func encodeFrame(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
