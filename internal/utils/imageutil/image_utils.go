package imageutil

import (
	"bytes"
	"image"
	"math"
	"smart-fridge-backend/domain"

	"github.com/disintegration/imaging"
)

const (
	MaxImageSize      = 10 * 1024 * 1024
	MinImageDimension = 50
)

// Validate decodes data and rejects images the detector cannot work with.
func Validate(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrImageEmpty
	}
	if len(data) > MaxImageSize {
		return nil, domain.ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.ErrImageUnreadable
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, domain.ErrImageUnreadable
	}
	if bounds.Dx() < MinImageDimension || bounds.Dy() < MinImageDimension {
		return nil, domain.ErrImageTooSmall
	}

	return img, nil
}

// Info reports dimensions and simple quality metrics of an already decoded image.
func Info(img image.Image, sizeBytes int) domain.ImageInfo {
	bounds := img.Bounds()
	gray := imaging.Grayscale(img)

	return domain.ImageInfo{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		SizeKB:      round2(float64(sizeBytes) / 1024),
		Brightness:  round2(meanIntensity(gray)),
		Sharpness:   round2(laplacianVariance(gray)),
		AspectRatio: round2(float64(bounds.Dx()) / float64(bounds.Dy())),
	}
}

func meanIntensity(gray *image.NRGBA) float64 {
	pixels := len(gray.Pix) / 4
	if pixels == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(gray.Pix); i += 4 {
		sum += float64(gray.Pix[i])
	}
	return sum / float64(pixels)
}

// laplacianVariance applies the 4-neighbour Laplacian kernel; higher means sharper.
func laplacianVariance(gray *image.NRGBA) float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x*4])
	}

	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
