package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessDetectItems   = "Items detected successfully"
	MessageSuccessGetHistory    = "detection history retrieved successfully"
	MessageSuccessTriggerSent   = "Trigger received"
	MessageFailedDetectItems    = "failed to detect items"
	MessageFailedInvalidImage   = "Invalid image"
	MessageFailedNoImage        = "No image file provided. Expected key: 'image'"
	MessageFailedGetHistory     = "failed to retrieve detection history"
	MessageFailedTriggerCapture = "failed to trigger capture"

	ErrNoImageProvided      = errors.New("no image file provided")
	ErrInvalidMinConfidence = errors.New("min_confidence must be a number between 0 and 1")
	ErrImageEmpty           = errors.New("image file is empty")
	ErrImageTooLarge        = errors.New("image file too large (max 10MB)")
	ErrImageUnreadable      = errors.New("could not read image file (invalid format)")
	ErrImageTooSmall        = errors.New("image is too small (min 50x50 pixels)")
	ErrDetectorFailed       = errors.New("detector failed")
	ErrCapturePublishFailed = errors.New("failed to publish capture command")
)

// Category is the coarse bucket a detected label falls into.
type Category string

const (
	CategoryFruits        Category = "fruits"
	CategoryVegetables    Category = "vegetables"
	CategoryPreparedFoods Category = "prepared_foods"
	CategoryContainers    Category = "containers"
	CategoryUtensils      Category = "utensils"
	CategoryOther         Category = "other"
)

type (
	BoundingBox struct {
		X1 float64 `json:"x1"`
		Y1 float64 `json:"y1"`
		X2 float64 `json:"x2"`
		Y2 float64 `json:"y2"`
	}

	// DetectedItem is one distinct label found in a single image.
	DetectedItem struct {
		Name       string        `json:"name"`
		Quantity   int           `json:"quantity"`
		Confidence float64       `json:"confidence"`
		Category   Category      `json:"category"`
		Boxes      []BoundingBox `json:"boxes,omitempty"`
	}

	DetectionOptions struct {
		MinConfidence       float64
		FilterRelevant      bool
		EnablePreprocessing bool
		SaveAnnotated       bool
	}

	// DetectionResult never carries an error: a failed run yields no items and a reason.
	DetectionResult struct {
		Items          []DetectedItem
		FailureReason  string
		AnnotatedImage []byte
	}

	DetectionSummary struct {
		TotalItems    int        `json:"total_items"`
		TotalQuantity int        `json:"total_quantity"`
		Categories    []Category `json:"categories"`
	}

	// HistoryItem is the persisted form of a detected or manually added item.
	HistoryItem struct {
		Name         string   `json:"name"`
		Quantity     int      `json:"quantity"`
		Confidence   *float64 `json:"confidence,omitempty"`
		Category     Category `json:"category,omitempty"`
		Status       string   `json:"status,omitempty"`
		LastDetected string   `json:"last_detected,omitempty"`
	}

	DetectionBatch struct {
		Timestamp string        `json:"timestamp"`
		Items     []HistoryItem `json:"items"`
	}

	UploadRequest struct {
		Image               *multipart.FileHeader `form:"image" validate:"required"`
		MinConfidence       float64               `form:"min_confidence" validate:"min=0,max=1"`
		FilterRelevant      bool                  `form:"filter_relevant"`
		EnablePreprocessing bool                  `form:"enable_preprocessing"`
		SaveAnnotated       bool                  `form:"save_annotated"`
	}

	ImageInfo struct {
		Filename    string  `json:"filename"`
		URL         string  `json:"url,omitempty"`
		Width       int     `json:"width"`
		Height      int     `json:"height"`
		SizeKB      float64 `json:"size_kb"`
		Brightness  float64 `json:"brightness"`
		Sharpness   float64 `json:"sharpness"`
		AspectRatio float64 `json:"aspect_ratio"`
	}

	UploadResponse struct {
		Items             []HistoryItem    `json:"items"`
		DetectedItems     []HistoryItem    `json:"detected_items"`
		TotalDetected     int              `json:"total_detected"`
		DetectionSummary  DetectionSummary `json:"detection_summary"`
		ImageInfo         ImageInfo        `json:"image_info"`
		AnnotatedImageURL string           `json:"annotated_image_url,omitempty"`
		InventoryUpdated  int              `json:"inventory_updated"`
		InventoryAdded    int              `json:"inventory_added"`
	}

	TriggerCaptureRequest struct {
		TriggerID string `json:"trigger_id"`
	}

	TriggerCaptureResponse struct {
		TriggerID   string    `json:"trigger_id"`
		Published   bool      `json:"published"`
		RequestedAt time.Time `json:"requested_at"`
		Note        string    `json:"note,omitempty"`
	}
)

// Summarize builds the per-upload summary: distinct categories keep first-seen order.
func Summarize(items []DetectedItem) DetectionSummary {
	summary := DetectionSummary{
		TotalItems: len(items),
		Categories: []Category{},
	}
	seen := make(map[Category]bool)
	for _, item := range items {
		summary.TotalQuantity += item.Quantity
		category := item.Category
		if category == "" {
			category = CategoryOther
		}
		if !seen[category] {
			seen[category] = true
			summary.Categories = append(summary.Categories, category)
		}
	}
	return summary
}
