package inventory

import (
	"smart-fridge-backend/domain"
	"strings"
	"time"
)

// Entry is one named line of the fridge inventory. The name keeps the casing it was created with.
type Entry struct {
	Name         string
	Quantity     int
	Confidence   *float64
	Status       string
	LastDetected string
}

func (e Entry) toResponse() domain.InventoryItemResponse {
	res := domain.InventoryItemResponse{
		Name:         e.Name,
		Quantity:     e.Quantity,
		Status:       e.Status,
		LastDetected: e.LastDetected,
	}
	if e.Confidence != nil {
		confidence := *e.Confidence
		res.Confidence = &confidence
	}
	return res
}

// Reconcile merges one detection batch into entries and returns the new list.
// Items match existing entries by lower-cased name: a match takes the latest quantity and
// confidence, anything else is appended. Entries the batch does not mention are kept as they are.
func Reconcile(entries []Entry, items []domain.DetectedItem, now time.Time) ([]Entry, domain.MergeResult) {
	merged := make([]Entry, len(entries), len(entries)+len(items))
	copy(merged, entries)

	// With case-variant duplicates the last one is the match.
	index := make(map[string]int, len(merged))
	for i, entry := range merged {
		index[strings.ToLower(entry.Name)] = i
	}

	stamp := now.Format(time.RFC3339)
	var result domain.MergeResult

	for _, item := range items {
		key := strings.ToLower(item.Name)
		confidence := item.Confidence

		if i, ok := index[key]; ok {
			entry := &merged[i]
			entry.Quantity = item.Quantity
			entry.Confidence = &confidence
			entry.LastDetected = stamp
			entry.Status = domain.StatusDetected
			result.Updated++
			continue
		}

		merged = append(merged, Entry{
			Name:         item.Name,
			Quantity:     item.Quantity,
			Confidence:   &confidence,
			Status:       domain.StatusDetected,
			LastDetected: stamp,
		})
		index[key] = len(merged) - 1
		result.Added++
	}

	result.Total = len(merged)
	return merged, result
}
