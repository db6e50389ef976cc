package domain

import (
	"errors"
)

const (
	StatusDetected = "Detected"
	StatusManual   = "Manual"

	// DetectionHistoryLimit is the number of batches kept in the history store.
	DetectionHistoryLimit = 100

	DefaultMinConfidence = 0.25
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageInternalServerError  = "internal server error"
	MessageItemNameRequired     = "Item name required"

	ErrItemNameRequired = errors.New("item name required")
)
