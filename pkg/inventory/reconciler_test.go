package inventory

import (
	"smart-fridge-backend/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detectedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestReconcile_MatchesIgnoringCaseAndKeepsFirstName(t *testing.T) {
	existing := []Entry{
		{Name: "Milk", Quantity: 1, Status: domain.StatusManual},
	}
	items := []domain.DetectedItem{
		{Name: "milk", Quantity: 2, Confidence: 0.8, Category: domain.CategoryOther},
	}

	merged, result := Reconcile(existing, items, detectedAt)

	require.Len(t, merged, 1)
	assert.Equal(t, "Milk", merged[0].Name)
	assert.Equal(t, 2, merged[0].Quantity)
	assert.Equal(t, domain.StatusDetected, merged[0].Status)
	require.NotNil(t, merged[0].Confidence)
	assert.Equal(t, 0.8, *merged[0].Confidence)
	assert.Equal(t, "2026-03-14T09:30:00Z", merged[0].LastDetected)
	assert.Equal(t, domain.MergeResult{Updated: 1, Added: 0, Total: 1}, result)
}

func TestReconcile_AppendsUnknownAndLeavesOthersUntouched(t *testing.T) {
	existing := []Entry{
		{Name: "Cheese", Quantity: 3, Status: "Opened"},
	}
	items := []domain.DetectedItem{
		{Name: "apple", Quantity: 4, Confidence: 0.91},
	}

	merged, result := Reconcile(existing, items, detectedAt)

	require.Len(t, merged, 2)
	assert.Equal(t, Entry{Name: "Cheese", Quantity: 3, Status: "Opened"}, merged[0])
	assert.Equal(t, "apple", merged[1].Name)
	assert.Equal(t, domain.StatusDetected, merged[1].Status)
	assert.Equal(t, domain.MergeResult{Updated: 0, Added: 1, Total: 2}, result)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	items := []domain.DetectedItem{
		{Name: "apple", Quantity: 2, Confidence: 0.9},
		{Name: "Bottle", Quantity: 1, Confidence: 0.5},
	}

	once, _ := Reconcile(nil, items, detectedAt)
	twice, result := Reconcile(once, items, detectedAt)

	assert.Equal(t, once, twice)
	assert.Equal(t, domain.MergeResult{Updated: 2, Added: 0, Total: 2}, result)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	existing := []Entry{{Name: "Milk", Quantity: 1, Status: domain.StatusManual}}

	_, _ = Reconcile(existing, []domain.DetectedItem{{Name: "MILK", Quantity: 5, Confidence: 0.4}}, detectedAt)

	assert.Equal(t, 1, existing[0].Quantity)
	assert.Equal(t, domain.StatusManual, existing[0].Status)
}

func TestReconcile_EmptyBatchKeepsEverything(t *testing.T) {
	existing := []Entry{{Name: "Eggs", Quantity: 12, Status: domain.StatusManual}}

	merged, result := Reconcile(existing, nil, detectedAt)

	assert.Equal(t, existing, merged)
	assert.Equal(t, domain.MergeResult{Total: 1}, result)
}

func TestReconcile_CaseVariantDuplicatesUpdateLastEntry(t *testing.T) {
	existing := []Entry{
		{Name: "Milk", Quantity: 1, Status: domain.StatusManual},
		{Name: "milk", Quantity: 2, Status: domain.StatusManual},
	}

	merged, result := Reconcile(existing, []domain.DetectedItem{{Name: "MILK", Quantity: 4, Confidence: 0.7}}, detectedAt)

	require.Len(t, merged, 2)
	assert.Equal(t, existing[0], merged[0])
	assert.Equal(t, "milk", merged[1].Name)
	assert.Equal(t, 4, merged[1].Quantity)
	assert.Equal(t, domain.StatusDetected, merged[1].Status)
	assert.Equal(t, domain.MergeResult{Updated: 1, Added: 0, Total: 2}, result)
}
