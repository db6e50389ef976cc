package history

import (
	"context"
	"errors"
	"path/filepath"
	"smart-fridge-backend/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct {
	appendCalls int
}

func (r *failingRepository) Append(context.Context, domain.DetectionBatch, int) error {
	r.appendCalls++
	return errors.New("disk full")
}

func (r *failingRepository) Latest(context.Context) (*domain.DetectionBatch, error) {
	return nil, errors.New("disk gone")
}

func (r *failingRepository) List(context.Context, int) ([]domain.DetectionBatch, error) {
	return nil, errors.New("disk gone")
}

func TestHistoryService_AppendAndLoadLatest(t *testing.T) {
	svc := NewHistoryService(NewFileHistoryRepository(filepath.Join(t.TempDir(), "database.json")))
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	assert.Empty(t, svc.LoadLatest(ctx))

	svc.Append(ctx, at, []domain.HistoryItem{{Name: "apple", Quantity: 2}})
	svc.Append(ctx, at.Add(time.Minute), []domain.HistoryItem{{Name: "milk", Quantity: 1, Status: domain.StatusManual}})

	latest := svc.LoadLatest(ctx)
	require.Len(t, latest, 1)
	assert.Equal(t, "milk", latest[0].Name)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-14T09:30:00Z", list[0].Timestamp)
}

func TestHistoryService_EmptyBatchIsRecorded(t *testing.T) {
	svc := NewHistoryService(NewFileHistoryRepository(filepath.Join(t.TempDir(), "database.json")))
	ctx := context.Background()

	svc.Append(ctx, time.Now(), nil)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].Items)
	assert.Empty(t, list[0].Items)
}

func TestHistoryService_SwallowsStoreErrors(t *testing.T) {
	repo := &failingRepository{}
	svc := NewHistoryService(repo)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		svc.Append(ctx, time.Now(), []domain.HistoryItem{{Name: "apple", Quantity: 1}})
	})
	assert.Equal(t, 1, repo.appendCalls)
	assert.Empty(t, svc.LoadLatest(ctx))
}

func TestHistoryService_ConcurrentAppendsAreSerialized(t *testing.T) {
	svc := NewHistoryService(NewFileHistoryRepository(filepath.Join(t.TempDir(), "database.json")))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Append(ctx, time.Now(), []domain.HistoryItem{{Name: "apple", Quantity: 1}})
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func TestHistoryService_KeepsSubSecondTimestamps(t *testing.T) {
	svc := NewHistoryService(NewFileHistoryRepository(filepath.Join(t.TempDir(), "database.json")))
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 30, 0, 250_000_000, time.UTC)

	svc.Append(ctx, at, []domain.HistoryItem{{Name: "apple", Quantity: 1}})

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-03-14T09:30:00.25Z", list[0].Timestamp)
}
