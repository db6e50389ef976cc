package handlers

import (
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/api/presenters"
	"smart-fridge-backend/pkg/capture"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	CaptureHandler interface {
		TriggerCapture(c *fiber.Ctx) error
	}

	captureHandler struct {
		captureService capture.CaptureService
	}
)

func NewCaptureHandler(captureService capture.CaptureService) CaptureHandler {
	return &captureHandler{
		captureService: captureService,
	}
}

// TriggerCapture accepts an empty body; the trigger id then defaults to "manual".
func (h *captureHandler) TriggerCapture(c *fiber.Ctx) error {
	req := new(domain.TriggerCaptureRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	res, err := h.captureService.TriggerCapture(c.UserContext(), req.TriggerID)
	if err != nil {
		log.Errorf("capture trigger failed: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedTriggerCapture, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessTriggerSent)
}
