package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"smart-fridge-backend/domain"

	"github.com/disintegration/imaging"
)

var boxColor = color.NRGBA{R: 0, G: 220, B: 90, A: 255}

const boxThickness = 3

// Annotate draws every box (pixel coordinates) onto the image and returns it as JPEG.
func Annotate(data []byte, boxes []domain.BoundingBox) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	canvas := imaging.Clone(img)
	for _, box := range boxes {
		drawRect(canvas, image.Rect(int(box.X1), int(box.Y1), int(box.X2), int(box.Y2)))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRect(canvas *image.NRGBA, rect image.Rectangle) {
	rect = rect.Canon().Intersect(canvas.Bounds())
	if rect.Empty() {
		return
	}
	for t := 0; t < boxThickness; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			canvas.SetNRGBA(x, rect.Min.Y+t, boxColor)
			canvas.SetNRGBA(x, rect.Max.Y-1-t, boxColor)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			canvas.SetNRGBA(rect.Min.X+t, y, boxColor)
			canvas.SetNRGBA(rect.Max.X-1-t, y, boxColor)
		}
	}
}
