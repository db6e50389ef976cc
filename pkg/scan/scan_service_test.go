package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/pkg/history"
	"smart-fridge-backend/pkg/inventory"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetection struct {
	result domain.DetectionResult
	opts   domain.DetectionOptions
}

func (f *fakeDetection) DetectItems(_ context.Context, _ []byte, opts domain.DetectionOptions) domain.DetectionResult {
	f.opts = opts
	return f.result
}

func (f *fakeDetection) DetectorName() string { return "fake" }

type fakeStorage struct {
	keys []string
	err  error
}

func (f *fakeStorage) UploadFile(_ context.Context, fileName string, _ []byte, folder string, _ ...string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := folder + "/" + fileName
	f.keys = append(f.keys, key)
	return key, nil
}

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "/static/" + objectKey
}

type fakeNotifier struct {
	sent chan domain.MergeResult
}

func (f *fakeNotifier) NotifyDetection(_ []domain.DetectedItem, result domain.MergeResult) error {
	f.sent <- result
	return nil
}

func fridgePhoto(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 3), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	svc       *scanService
	detection *fakeDetection
	inventory inventory.InventoryService
	history   history.HistoryService
	storage   *fakeStorage
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		detection: &fakeDetection{},
		inventory: inventory.NewInventoryService(),
		history:   history.NewHistoryService(history.NewFileHistoryRepository(filepath.Join(t.TempDir(), "database.json"))),
		storage:   &fakeStorage{},
		notifier:  &fakeNotifier{sent: make(chan domain.MergeResult, 1)},
	}
	svc := NewScanService(f.detection, f.inventory, f.history, f.storage, f.notifier).(*scanService)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC) }
	svc.nameSuffix = func() string { return "a1b2c3d4" }
	f.svc = svc
	return f
}

func TestProcessUpload_MergesRecordsAndStores(t *testing.T) {
	f := newFixture(t)
	f.inventory.AddManual("Apple", 1, domain.StatusManual)
	f.detection.result = domain.DetectionResult{
		Items: []domain.DetectedItem{
			{Name: "apple", Quantity: 2, Confidence: 0.9, Category: domain.CategoryFruits},
			{Name: "bottle", Quantity: 1, Confidence: 0.6, Category: domain.CategoryContainers},
		},
		AnnotatedImage: []byte("annotated"),
	}
	opts := domain.DetectionOptions{MinConfidence: 0.25, FilterRelevant: true, SaveAnnotated: true}

	res, err := f.svc.ProcessUpload(context.Background(), fridgePhoto(t, 64), opts)

	require.NoError(t, err)
	assert.Equal(t, opts, f.detection.opts)
	assert.Equal(t, 2, res.TotalDetected)
	assert.Equal(t, res.Items, res.DetectedItems)
	assert.Equal(t, domain.StatusDetected, res.Items[0].Status)
	assert.Equal(t, "2026-03-14T09:30:05Z", res.Items[0].LastDetected)
	assert.Equal(t, domain.DetectionSummary{
		TotalItems:    2,
		TotalQuantity: 3,
		Categories:    []domain.Category{domain.CategoryFruits, domain.CategoryContainers},
	}, res.DetectionSummary)
	assert.Equal(t, 1, res.InventoryUpdated)
	assert.Equal(t, 1, res.InventoryAdded)

	assert.Equal(t, "20260314_093005_a1b2c3d4.jpg", res.ImageInfo.Filename)
	assert.Equal(t, "/static/images/20260314_093005_a1b2c3d4.jpg", res.ImageInfo.URL)
	assert.Equal(t, 64, res.ImageInfo.Width)
	assert.Equal(t, "/static/images/20260314_093005_a1b2c3d4_annotated.jpg", res.AnnotatedImageURL)

	list := f.inventory.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Apple", list[0].Name)
	assert.Equal(t, 2, list[0].Quantity)

	latest := f.history.LoadLatest(context.Background())
	require.Len(t, latest, 2)
	assert.Equal(t, "apple", latest[0].Name)

	select {
	case merge := <-f.notifier.sent:
		assert.Equal(t, 1, merge.Added)
	case <-time.After(time.Second):
		t.Fatal("notification not sent")
	}
}

func TestProcessUpload_InvalidImageChangesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessUpload(context.Background(), fridgePhoto(t, 20), domain.DetectionOptions{})
	assert.ErrorIs(t, err, domain.ErrImageTooSmall)

	_, err = f.svc.ProcessUpload(context.Background(), []byte("not an image"), domain.DetectionOptions{})
	assert.ErrorIs(t, err, domain.ErrImageUnreadable)

	_, err = f.svc.ProcessUpload(context.Background(), nil, domain.DetectionOptions{})
	assert.ErrorIs(t, err, domain.ErrImageEmpty)

	assert.Zero(t, f.inventory.Count())
	assert.Empty(t, f.storage.keys)
	list, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProcessUpload_DetectionFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.inventory.AddManual("Milk", 1, domain.StatusManual)
	f.detection.result = domain.DetectionResult{
		Items:         []domain.DetectedItem{},
		FailureReason: "detector failed: model offline",
	}

	res, err := f.svc.ProcessUpload(context.Background(), fridgePhoto(t, 64), domain.DetectionOptions{})

	require.NoError(t, err)
	assert.Zero(t, res.TotalDetected)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 1, f.inventory.Count())

	list, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Items)
}

func TestProcessUpload_StorageFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.storage.err = errors.New("bucket missing")
	f.detection.result = domain.DetectionResult{
		Items: []domain.DetectedItem{{Name: "cake", Quantity: 1, Confidence: 0.8, Category: domain.CategoryPreparedFoods}},
	}

	res, err := f.svc.ProcessUpload(context.Background(), fridgePhoto(t, 64), domain.DetectionOptions{})

	require.NoError(t, err)
	assert.Empty(t, res.ImageInfo.URL)
	assert.Equal(t, 1, res.TotalDetected)
}

func TestAddManualItem_RecordsHistory(t *testing.T) {
	f := newFixture(t)

	item := f.svc.AddManualItem(context.Background(), "Butter", 0, "Opened")

	assert.Equal(t, domain.InventoryItemResponse{Name: "Butter", Quantity: 0, Status: "Opened"}, item)
	assert.Equal(t, 1, f.inventory.Count())
	latest := f.history.LoadLatest(context.Background())
	require.Len(t, latest, 1)
	assert.Equal(t, domain.HistoryItem{Name: "Butter", Quantity: 0, Status: "Opened"}, latest[0])
}

func TestProcessUpload_SameSecondUploadsKeepSeparateImages(t *testing.T) {
	f := newFixture(t)
	f.svc.nameSuffix = shortID
	photo := fridgePhoto(t, 64)

	first, err := f.svc.ProcessUpload(context.Background(), photo, domain.DetectionOptions{})
	require.NoError(t, err)
	second, err := f.svc.ProcessUpload(context.Background(), photo, domain.DetectionOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ImageInfo.Filename, second.ImageInfo.Filename)
	assert.Regexp(t, `^20260314_093005_[0-9a-f]{8}\.jpg$`, first.ImageInfo.Filename)
	require.Len(t, f.storage.keys, 2)
	assert.NotEqual(t, f.storage.keys[0], f.storage.keys[1])
}
