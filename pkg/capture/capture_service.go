package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"smart-fridge-backend/domain"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultTriggerID = "manual"

	noBrokerNote = "Camera captures on its own interval. Configure MQTT_BROKER for on-demand capture."
)

type (
	CaptureService interface {
		TriggerCapture(ctx context.Context, triggerID string) (domain.TriggerCaptureResponse, error)
	}

	captureService struct {
		publisher Publisher
		topic     string
		now       func() time.Time
	}

	captureCommand struct {
		Command     string    `json:"command"`
		TriggerID   string    `json:"trigger_id"`
		RequestedAt time.Time `json:"requested_at"`
	}
)

// NewCaptureService accepts a nil publisher; triggers are then acknowledged but not sent.
func NewCaptureService(publisher Publisher, topic string) CaptureService {
	return &captureService{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

func (s *captureService) TriggerCapture(ctx context.Context, triggerID string) (domain.TriggerCaptureResponse, error) {
	if triggerID == "" {
		triggerID = DefaultTriggerID
	}
	res := domain.TriggerCaptureResponse{
		TriggerID:   triggerID,
		RequestedAt: s.now().UTC(),
	}
	log.Infof("capture requested: %s", triggerID)

	if s.publisher == nil {
		res.Note = noBrokerNote
		return res, nil
	}

	payload, err := json.Marshal(captureCommand{
		Command:     "capture",
		TriggerID:   triggerID,
		RequestedAt: res.RequestedAt,
	})
	if err != nil {
		return domain.TriggerCaptureResponse{}, err
	}

	if err := s.publisher.Publish(ctx, s.topic, payload); err != nil {
		return domain.TriggerCaptureResponse{}, fmt.Errorf("%w: %v", domain.ErrCapturePublishFailed, err)
	}
	res.Published = true
	return res, nil
}
