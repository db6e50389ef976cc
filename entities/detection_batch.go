package entities

import (
	"smart-fridge-backend/domain"
	"time"

	"github.com/google/uuid"
)

type DetectionBatch struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	DetectedAt time.Time            `gorm:"type:timestamp;index" json:"detected_at"`
	Items      []domain.HistoryItem `gorm:"type:jsonb;serializer:json" json:"items"`
	ItemCount  int                  `json:"item_count"`
	Timestamp
}
