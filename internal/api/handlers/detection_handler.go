package handlers

import (
	"errors"
	"io"
	"math"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/api/presenters"
	"smart-fridge-backend/internal/utils/imageutil"
	"smart-fridge-backend/pkg/history"
	"smart-fridge-backend/pkg/scan"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var imageErrors = []error{
	domain.ErrImageEmpty,
	domain.ErrImageTooLarge,
	domain.ErrImageUnreadable,
	domain.ErrImageTooSmall,
}

type (
	DetectionHandler interface {
		Upload(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
	}

	detectionHandler struct {
		scanService    scan.ScanService
		historyService history.HistoryService
		validator      *validator.Validate
	}
)

func NewDetectionHandler(scanService scan.ScanService, historyService history.HistoryService, validator *validator.Validate) DetectionHandler {
	return &detectionHandler{
		scanService:    scanService,
		historyService: historyService,
		validator:      validator,
	}
}

func (h *detectionHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNoImage, domain.ErrNoImageProvided)
	}

	req := domain.UploadRequest{
		Image:               fileHeader,
		MinConfidence:       domain.DefaultMinConfidence,
		FilterRelevant:      formBool(c, true, "filter_relevant", "filter_food"),
		EnablePreprocessing: formBool(c, true, "enable_preprocessing", "preprocess"),
		SaveAnnotated:       formBool(c, false, "save_annotated"),
	}
	if raw := c.FormValue("min_confidence"); raw != "" {
		req.MinConfidence, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		// NaN slips past min/max and would disable the threshold.
		if math.IsNaN(req.MinConfidence) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidMinConfidence)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := req.Image.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, domain.ErrImageUnreadable)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imageutil.MaxImageSize+1))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, domain.ErrImageUnreadable)
	}
	log.Infof("upload received: %s (%d bytes)", req.Image.Filename, len(data))

	res, err := h.scanService.ProcessUpload(c.UserContext(), data, domain.DetectionOptions{
		MinConfidence:       req.MinConfidence,
		FilterRelevant:      req.FilterRelevant,
		EnablePreprocessing: req.EnablePreprocessing,
		SaveAnnotated:       req.SaveAnnotated,
	})
	if err != nil {
		for _, imageErr := range imageErrors {
			if errors.Is(err, imageErr) {
				return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
			}
		}
		log.Errorf("upload failed: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDetectItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessDetectItems)
}

func (h *detectionHandler) GetHistory(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	batches, err := h.historyService.List(c.UserContext(), limit)
	if err != nil {
		log.Errorf("listing history failed: %v", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, batches, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

// formBool reads the first present key; only "true" (any case) counts as true.
func formBool(c *fiber.Ctx, fallback bool, keys ...string) bool {
	for _, key := range keys {
		if value := c.FormValue(key); value != "" {
			return strings.EqualFold(value, "true")
		}
	}
	return fallback
}
