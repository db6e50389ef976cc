package detection

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"smart-fridge-backend/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const rekognitionMaxLabels = 100

type (
	// RekognitionAPI is the subset of *rekognition.Client used for label detection.
	RekognitionAPI interface {
		DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	}

	rekognitionDetector struct {
		client RekognitionAPI
	}
)

func NewRekognitionDetector(client RekognitionAPI) Detector {
	return &rekognitionDetector{client: client}
}

func (d *rekognitionDetector) Name() string {
	return "rekognition"
}

// Detect emits one detection per located instance. Labels Rekognition reports without
// instances count once, at the label's confidence.
func (d *rekognitionDetector) Detect(ctx context.Context, img []byte, minConfidence float64) ([]RawDetection, error) {
	if d.client == nil {
		return nil, fmt.Errorf("rekognition client not configured")
	}

	output, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img},
		MaxLabels:     aws.Int32(rekognitionMaxLabels),
		MinConfidence: aws.Float32(float32(minConfidence * 100)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	width, height := imageSize(img)

	var detections []RawDetection
	for _, label := range output.Labels {
		name := aws.ToString(label.Name)
		if name == "" {
			continue
		}

		if len(label.Instances) == 0 {
			detections = append(detections, RawDetection{
				Label:      name,
				Confidence: float64(aws.ToFloat32(label.Confidence)) / 100,
			})
			continue
		}

		for _, instance := range label.Instances {
			confidence := aws.ToFloat32(instance.Confidence)
			if confidence == 0 {
				confidence = aws.ToFloat32(label.Confidence)
			}
			detections = append(detections, RawDetection{
				Label:      name,
				Confidence: float64(confidence) / 100,
				Box:        toPixelBox(instance.BoundingBox, width, height),
			})
		}
	}

	return detections, nil
}

func imageSize(img []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// toPixelBox converts Rekognition's ratio box; without image dimensions it stays in ratios.
func toPixelBox(box *types.BoundingBox, width, height int) *domain.BoundingBox {
	if box == nil {
		return nil
	}
	w, h := 1.0, 1.0
	if width > 0 && height > 0 {
		w, h = float64(width), float64(height)
	}
	left := float64(aws.ToFloat32(box.Left))
	top := float64(aws.ToFloat32(box.Top))
	return &domain.BoundingBox{
		X1: left * w,
		Y1: top * h,
		X2: (left + float64(aws.ToFloat32(box.Width))) * w,
		Y2: (top + float64(aws.ToFloat32(box.Height))) * h,
	}
}
