package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/entities"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newestFirst breaks detected_at ties by insertion time.
const newestFirst = "detected_at DESC, created_at DESC"

type (
	// HistoryRepository stores detection batches oldest first and keeps at most limit of them.
	HistoryRepository interface {
		Append(ctx context.Context, batch domain.DetectionBatch, limit int) error
		Latest(ctx context.Context) (*domain.DetectionBatch, error)
		List(ctx context.Context, limit int) ([]domain.DetectionBatch, error)
	}

	fileHistoryRepository struct {
		path string
	}

	gormHistoryRepository struct {
		db *gorm.DB
	}
)

// NewFileHistoryRepository keeps the whole history as one JSON array in path.
func NewFileHistoryRepository(path string) HistoryRepository {
	return &fileHistoryRepository{path: path}
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

// read treats a missing or corrupt file as an empty history.
func (r *fileHistoryRepository) read() []domain.DetectionBatch {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("reading history file %s: %v", r.path, err)
		}
		return []domain.DetectionBatch{}
	}

	var batches []domain.DetectionBatch
	if err := json.Unmarshal(data, &batches); err != nil {
		log.Warnf("history file %s is corrupt, starting over: %v", r.path, err)
		return []domain.DetectionBatch{}
	}
	return batches
}

func (r *fileHistoryRepository) write(batches []domain.DetectionBatch) error {
	data, err := json.MarshalIndent(batches, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

func (r *fileHistoryRepository) Append(_ context.Context, batch domain.DetectionBatch, limit int) error {
	batches := append(r.read(), batch)
	if limit > 0 && len(batches) > limit {
		batches = batches[len(batches)-limit:]
	}
	return r.write(batches)
}

func (r *fileHistoryRepository) Latest(_ context.Context) (*domain.DetectionBatch, error) {
	batches := r.read()
	if len(batches) == 0 {
		return nil, nil
	}
	latest := batches[len(batches)-1]
	return &latest, nil
}

func (r *fileHistoryRepository) List(_ context.Context, limit int) ([]domain.DetectionBatch, error) {
	batches := r.read()
	if limit > 0 && len(batches) > limit {
		batches = batches[len(batches)-limit:]
	}
	return batches, nil
}

func (r *gormHistoryRepository) Append(ctx context.Context, batch domain.DetectionBatch, limit int) error {
	entity, err := toEntity(batch)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		if limit <= 0 {
			return nil
		}

		newest := tx.Model(&entities.DetectionBatch{}).
			Select("id").
			Order(newestFirst).
			Limit(limit)
		return tx.Where("id NOT IN (?)", newest).Delete(&entities.DetectionBatch{}).Error
	})
}

func (r *gormHistoryRepository) Latest(ctx context.Context) (*domain.DetectionBatch, error) {
	var entity entities.DetectionBatch
	if err := r.db.WithContext(ctx).Order(newestFirst).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	batch := fromEntity(entity)
	return &batch, nil
}

func (r *gormHistoryRepository) List(ctx context.Context, limit int) ([]domain.DetectionBatch, error) {
	var rows []entities.DetectionBatch
	query := r.db.WithContext(ctx).Order(newestFirst)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	batches := make([]domain.DetectionBatch, len(rows))
	for i, row := range rows {
		batches[len(rows)-1-i] = fromEntity(row)
	}
	return batches, nil
}

func toEntity(batch domain.DetectionBatch) (*entities.DetectionBatch, error) {
	detectedAt, err := time.Parse(time.RFC3339Nano, batch.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse batch timestamp: %w", err)
	}
	return &entities.DetectionBatch{
		ID:         uuid.New(),
		DetectedAt: detectedAt,
		Items:      batch.Items,
		ItemCount:  len(batch.Items),
	}, nil
}

func fromEntity(entity entities.DetectionBatch) domain.DetectionBatch {
	items := entity.Items
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return domain.DetectionBatch{
		Timestamp: entity.DetectedAt.UTC().Format(time.RFC3339Nano),
		Items:     items,
	}
}
