package history

import (
	"context"
	"smart-fridge-backend/domain"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	HistoryService interface {
		Append(ctx context.Context, detectedAt time.Time, items []domain.HistoryItem)
		LoadLatest(ctx context.Context) []domain.HistoryItem
		List(ctx context.Context, limit int) ([]domain.DetectionBatch, error)
	}

	historyService struct {
		mu                sync.Mutex
		historyRepository HistoryRepository
	}
)

func NewHistoryService(historyRepository HistoryRepository) HistoryService {
	return &historyService{
		historyRepository: historyRepository,
	}
}

// Append records one batch. A failing store is logged and otherwise ignored.
func (s *historyService) Append(ctx context.Context, detectedAt time.Time, items []domain.HistoryItem) {
	if items == nil {
		items = []domain.HistoryItem{}
	}
	batch := domain.DetectionBatch{
		Timestamp: detectedAt.UTC().Format(time.RFC3339Nano),
		Items:     items,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.historyRepository.Append(ctx, batch, domain.DetectionHistoryLimit); err != nil {
		log.Errorf("saving detection batch failed: %v", err)
		return
	}
	log.Infof("saved %d items to detection history", len(items))
}

// LoadLatest returns the items of the newest batch, or nothing if there is none.
func (s *historyService) LoadLatest(ctx context.Context) []domain.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, err := s.historyRepository.Latest(ctx)
	if err != nil {
		log.Errorf("loading latest detection batch failed: %v", err)
		return []domain.HistoryItem{}
	}
	if latest == nil || latest.Items == nil {
		return []domain.HistoryItem{}
	}
	return latest.Items
}

func (s *historyService) List(ctx context.Context, limit int) ([]domain.DetectionBatch, error) {
	if limit <= 0 || limit > domain.DetectionHistoryLimit {
		limit = domain.DetectionHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.historyRepository.List(ctx, limit)
}
