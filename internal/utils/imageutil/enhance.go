package imageutil

import (
	"bytes"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

const (
	enhanceContrast   = 15
	enhanceBrightness = 5
	enhanceSharpen    = 0.8
)

// EnhanceToTempFile writes a contrast, brightness and sharpness adjusted copy of data to a
// temporary JPEG. The caller must invoke cleanup once the artifact is no longer needed; it is
// safe to call more than once.
func EnhanceToTempFile(data []byte) (path string, cleanup func(), err error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", func() {}, fmt.Errorf("decode image: %w", err)
	}

	enhanced := imaging.AdjustContrast(img, enhanceContrast)
	enhanced = imaging.AdjustBrightness(enhanced, enhanceBrightness)
	enhanced = imaging.Sharpen(enhanced, enhanceSharpen)

	file, err := os.CreateTemp("", "fridge-enhanced-*.jpg")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path = file.Name()
	cleanup = func() {
		_ = os.Remove(path)
	}

	if err := imaging.Encode(file, enhanced, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		file.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("encode enhanced image: %w", err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close enhanced image: %w", err)
	}

	return path, cleanup, nil
}
