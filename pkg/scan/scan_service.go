package scan

import (
	"context"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/utils/imageutil"
	"smart-fridge-backend/internal/utils/storage"
	"smart-fridge-backend/pkg/detection"
	"smart-fridge-backend/pkg/history"
	"smart-fridge-backend/pkg/inventory"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	imageFolder     = "images"
	imageNameLayout = "20060102_150405"
)

type (
	// ScanService drives one fridge photo through detection, history and the inventory.
	ScanService interface {
		ProcessUpload(ctx context.Context, image []byte, opts domain.DetectionOptions) (domain.UploadResponse, error)
		AddManualItem(ctx context.Context, name string, quantity int, status string) domain.InventoryItemResponse
	}

	Notifier interface {
		NotifyDetection(items []domain.DetectedItem, result domain.MergeResult) error
	}

	scanService struct {
		detectionService detection.DetectionService
		inventoryService inventory.InventoryService
		historyService   history.HistoryService
		imageStorage     storage.ImageStorage
		notifier         Notifier
		now              func() time.Time
		nameSuffix       func() string
	}
)

// NewScanService accepts nil storage and notifier; those steps are then skipped.
func NewScanService(
	detectionService detection.DetectionService,
	inventoryService inventory.InventoryService,
	historyService history.HistoryService,
	imageStorage storage.ImageStorage,
	notifier Notifier,
) ScanService {
	return &scanService{
		detectionService: detectionService,
		inventoryService: inventoryService,
		historyService:   historyService,
		imageStorage:     imageStorage,
		notifier:         notifier,
		now:              time.Now,
		nameSuffix:       shortID,
	}
}

func (s *scanService) ProcessUpload(ctx context.Context, image []byte, opts domain.DetectionOptions) (domain.UploadResponse, error) {
	img, err := imageutil.Validate(image)
	if err != nil {
		return domain.UploadResponse{}, err
	}

	now := s.now()
	// Uploads within the same second keep separate files.
	filename := now.Format(imageNameLayout) + "_" + s.nameSuffix() + ".jpg"
	info := imageutil.Info(img, len(image))
	info.Filename = filename
	info.URL = s.store(ctx, filename, image)
	log.Infof("image %s: %dx%d, %.2f KB, sharpness %.2f, brightness %.2f",
		filename, info.Width, info.Height, info.SizeKB, info.Sharpness, info.Brightness)

	result := s.detectionService.DetectItems(ctx, image, opts)
	if result.FailureReason != "" {
		log.Warnf("detection returned no items: %s", result.FailureReason)
	}
	log.Infof("detected %d items with %s", len(result.Items), s.detectionService.DetectorName())

	var annotatedURL string
	if len(result.AnnotatedImage) > 0 {
		annotatedName := strings.TrimSuffix(filename, ".jpg") + "_annotated.jpg"
		annotatedURL = s.store(ctx, annotatedName, result.AnnotatedImage)
	}

	stamped := stampDetected(result.Items, now)
	s.historyService.Append(ctx, now, stamped)
	merge := s.inventoryService.UpsertFromBatch(result.Items, now)
	s.notify(result.Items, merge)

	return domain.UploadResponse{
		Items:             stamped,
		DetectedItems:     stamped,
		TotalDetected:     len(stamped),
		DetectionSummary:  domain.Summarize(result.Items),
		ImageInfo:         info,
		AnnotatedImageURL: annotatedURL,
		InventoryUpdated:  merge.Updated,
		InventoryAdded:    merge.Added,
	}, nil
}

// AddManualItem also records the item as a one-item history batch.
func (s *scanService) AddManualItem(ctx context.Context, name string, quantity int, status string) domain.InventoryItemResponse {
	item := s.inventoryService.AddManual(name, quantity, status)
	s.historyService.Append(ctx, s.now(), []domain.HistoryItem{{
		Name:     name,
		Quantity: quantity,
		Status:   status,
	}})
	return item
}

// store returns the public link of the saved image, or "" when it could not be kept.
func (s *scanService) store(ctx context.Context, filename string, data []byte) string {
	if s.imageStorage == nil {
		return ""
	}
	key, err := s.imageStorage.UploadFile(ctx, filename, data, imageFolder, storage.AllowImage...)
	if err != nil {
		log.Errorf("saving image %s failed: %v", filename, err)
		return ""
	}
	return s.imageStorage.GetPublicLinkKey(key)
}

func (s *scanService) notify(items []domain.DetectedItem, merge domain.MergeResult) {
	if s.notifier == nil || merge.Added == 0 {
		return
	}
	go func() {
		if err := s.notifier.NotifyDetection(items, merge); err != nil {
			log.Errorf("detection notification failed: %v", err)
		}
	}()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func stampDetected(items []domain.DetectedItem, now time.Time) []domain.HistoryItem {
	stamp := now.Format(time.RFC3339)
	stamped := make([]domain.HistoryItem, 0, len(items))
	for _, item := range items {
		confidence := item.Confidence
		stamped = append(stamped, domain.HistoryItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			Confidence:   &confidence,
			Category:     item.Category,
			Status:       domain.StatusDetected,
			LastDetected: stamp,
		})
	}
	return stamped
}
