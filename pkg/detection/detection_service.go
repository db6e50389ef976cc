package detection

import (
	"context"
	"fmt"
	"math"
	"os"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/utils/imageutil"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type (
	DetectionService interface {
		DetectItems(ctx context.Context, image []byte, opts domain.DetectionOptions) domain.DetectionResult
		DetectorName() string
	}

	// Enhancer writes a preprocessed copy of an image and returns a cleanup for it.
	Enhancer func(image []byte) (path string, cleanup func(), err error)

	detectionService struct {
		detector Detector
		enhance  Enhancer
	}
)

func NewDetectionService(detector Detector, enhance Enhancer) DetectionService {
	if enhance == nil {
		enhance = imageutil.EnhanceToTempFile
	}
	return &detectionService{
		detector: detector,
		enhance:  enhance,
	}
}

func (s *detectionService) DetectorName() string {
	return s.detector.Name()
}

// DetectItems runs the detector once and turns its raw boxes into per-label items.
// It never fails: any error or panic yields an empty item list and a failure reason.
func (s *detectionService) DetectItems(ctx context.Context, image []byte, opts domain.DetectionOptions) (result domain.DetectionResult) {
	result.Items = []domain.DetectedItem{}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("detection panicked: %v", r)
			result = domain.DetectionResult{
				Items:         []domain.DetectedItem{},
				FailureReason: fmt.Sprintf("%v: %v", domain.ErrDetectorFailed, r),
			}
		}
	}()

	payload := image
	if opts.EnablePreprocessing {
		path, cleanup, err := s.enhance(image)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			log.Warnf("preprocessing skipped: %v", err)
		} else if enhanced, err := os.ReadFile(path); err != nil {
			log.Warnf("reading enhanced image failed: %v", err)
		} else {
			payload = enhanced
		}
	}

	raw, err := s.detector.Detect(ctx, payload, opts.MinConfidence)
	if err != nil {
		log.Errorf("detection with %s failed: %v", s.detector.Name(), err)
		result.FailureReason = fmt.Errorf("%w: %v", domain.ErrDetectorFailed, err).Error()
		return result
	}

	result.Items = AggregateDetections(raw, opts)

	if opts.SaveAnnotated {
		var boxes []domain.BoundingBox
		for _, item := range result.Items {
			boxes = append(boxes, item.Boxes...)
		}
		annotated, err := imageutil.Annotate(payload, boxes)
		if err != nil {
			log.Warnf("annotating image failed: %v", err)
		} else {
			result.AnnotatedImage = annotated
		}
	}

	return result
}

// AggregateDetections filters raw detections and groups them by lower-cased label.
// Items come back ordered by confidence, highest first; ties keep encounter order.
func AggregateDetections(raw []RawDetection, opts domain.DetectionOptions) []domain.DetectedItem {
	items := make([]domain.DetectedItem, 0)
	index := make(map[string]int)

	for _, det := range raw {
		if det.Confidence < opts.MinConfidence {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(det.Label))
		if key == "" {
			continue
		}
		if opts.FilterRelevant && !IsRelevant(key) {
			continue
		}

		i, ok := index[key]
		if !ok {
			items = append(items, domain.DetectedItem{
				Name:       strings.TrimSpace(det.Label),
				Confidence: det.Confidence,
				Category:   CategoryFor(key),
			})
			i = len(items) - 1
			index[key] = i
		}

		item := &items[i]
		item.Quantity++
		if det.Confidence > item.Confidence {
			item.Confidence = det.Confidence
		}
		if det.Box != nil {
			item.Boxes = append(item.Boxes, *det.Box)
		}
	}

	// Order on raw confidence, round only for output.
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Confidence > items[b].Confidence
	})

	for i := range items {
		items[i].Confidence = math.Round(items[i].Confidence*100) / 100
	}

	return items
}
