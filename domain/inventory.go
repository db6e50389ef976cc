package domain

import (
	"errors"
)

var (
	MessageSuccessGetInventory = "inventory retrieved successfully"
	MessageSuccessAddItem      = "Item added successfully"
	MessageSuccessUpdateItem   = "Item updated"
	MessageSuccessDeleteItem   = "Item deleted"

	MessageFailedAddItem    = "Invalid item data"
	MessageFailedUpdateItem = "failed to update item"
	MessageFailedDeleteItem = "failed to delete item"
	MessageItemNotFound     = "Item not found"

	ErrInventoryItemNotFound = errors.New("item not found")
)

type (
	// InventoryItemResponse is the client-facing snapshot of one entry.
	InventoryItemResponse struct {
		Name         string   `json:"name"`
		Quantity     int      `json:"quantity"`
		Status       string   `json:"status"`
		Confidence   *float64 `json:"confidence,omitempty"`
		LastDetected string   `json:"last_detected,omitempty"`
	}

	AddItemRequest struct {
		Name     *string `json:"name" validate:"required"`
		Quantity *int    `json:"quantity" validate:"required,min=0"`
		Status   *string `json:"status" validate:"required"`
	}

	UpdateItemRequest struct {
		Name     string  `json:"name" validate:"required"`
		Quantity *int    `json:"quantity" validate:"omitempty,min=0"`
		Status   *string `json:"status" validate:"omitempty"`
	}

	MergeResult struct {
		Updated int `json:"updated"`
		Added   int `json:"added"`
		Total   int `json:"total"`
	}
)
