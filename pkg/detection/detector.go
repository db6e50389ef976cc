package detection

import (
	"context"
	"smart-fridge-backend/domain"
)

type (
	// Detector is the black-box object detection model.
	Detector interface {
		Name() string
		Detect(ctx context.Context, image []byte, minConfidence float64) ([]RawDetection, error)
	}

	HealthChecker interface {
		CheckHealth(ctx context.Context) error
	}

	RawDetection struct {
		Label      string
		Confidence float64
		Box        *domain.BoundingBox
	}
)
