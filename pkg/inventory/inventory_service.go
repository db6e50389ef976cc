package inventory

import (
	"smart-fridge-backend/domain"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	// InventoryService owns the in-memory inventory. One instance is shared by every handler.
	InventoryService interface {
		List() []domain.InventoryItemResponse
		Count() int
		Seed(items []domain.HistoryItem)
		UpsertFromBatch(items []domain.DetectedItem, detectedAt time.Time) domain.MergeResult
		AddManual(name string, quantity int, status string) domain.InventoryItemResponse
		Update(req domain.UpdateItemRequest) (domain.InventoryItemResponse, error)
		Delete(name string) error
	}

	inventoryService struct {
		mu      sync.RWMutex
		entries []Entry
	}
)

func NewInventoryService() InventoryService {
	return &inventoryService{
		entries: []Entry{},
	}
}

func (s *inventoryService) List() []domain.InventoryItemResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.InventoryItemResponse, 0, len(s.entries))
	for _, entry := range s.entries {
		res = append(res, entry.toResponse())
	}
	return res
}

func (s *inventoryService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Seed replaces the inventory with the items of a stored batch.
func (s *inventoryService) Seed(items []domain.HistoryItem) {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		status := item.Status
		if status == "" {
			status = domain.StatusDetected
		}
		entry := Entry{
			Name:         item.Name,
			Quantity:     item.Quantity,
			Status:       status,
			LastDetected: item.LastDetected,
		}
		if item.Confidence != nil {
			confidence := *item.Confidence
			entry.Confidence = &confidence
		}
		entries = append(entries, entry)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

func (s *inventoryService) UpsertFromBatch(items []domain.DetectedItem, detectedAt time.Time) domain.MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, result := Reconcile(s.entries, items, detectedAt)
	s.entries = merged

	log.Infof("inventory merged: %d updated, %d added, total %d", result.Updated, result.Added, result.Total)
	return result
}

// AddManual appends without looking for an existing entry of the same name.
func (s *inventoryService) AddManual(name string, quantity int, status string) domain.InventoryItemResponse {
	entry := Entry{
		Name:     name,
		Quantity: quantity,
		Status:   status,
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	return entry.toResponse()
}

// Update touches the first entry whose name matches exactly, case included.
func (s *inventoryService) Update(req domain.UpdateItemRequest) (domain.InventoryItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		entry := &s.entries[i]
		if entry.Name != req.Name {
			continue
		}
		if req.Quantity != nil {
			entry.Quantity = *req.Quantity
		}
		if req.Status != nil {
			entry.Status = *req.Status
		}
		return entry.toResponse(), nil
	}

	return domain.InventoryItemResponse{}, domain.ErrInventoryItemNotFound
}

// Delete removes every entry whose name matches ignoring case.
func (s *inventoryService) Delete(name string) error {
	if name == "" {
		return domain.ErrItemNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	kept := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if strings.ToLower(entry.Name) != key {
			kept = append(kept, entry)
		}
	}

	if len(kept) == len(s.entries) {
		return domain.ErrInventoryItemNotFound
	}
	s.entries = kept
	return nil
}
