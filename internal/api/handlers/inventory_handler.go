package handlers

import (
	"errors"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/api/presenters"
	"smart-fridge-backend/pkg/inventory"
	"smart-fridge-backend/pkg/scan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InventoryHandler interface {
		GetInventory(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		scanService      scan.ScanService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, scanService scan.ScanService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		scanService:      scanService,
		validator:        validator,
	}
}

func (h *inventoryHandler) GetInventory(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.inventoryService.List(), fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) AddItem(c *fiber.Ctx) error {
	req := new(domain.AddItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	item := h.scanService.AddManualItem(c.UserContext(), *req.Name, *req.Quantity, *req.Status)

	return presenters.SuccessResponse(c, fiber.Map{
		"item":      item,
		"inventory": h.inventoryService.List(),
	}, fiber.StatusOK, domain.MessageSuccessAddItem)
}

func (h *inventoryHandler) UpdateItem(c *fiber.Ctx) error {
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageItemNameRequired, err)
	}

	item, err := h.inventoryService.Update(*req)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageItemNotFound, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *inventoryHandler) DeleteItem(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageItemNameRequired, domain.ErrItemNameRequired)
	}

	if err := h.inventoryService.Delete(name); err != nil {
		if errors.Is(err, domain.ErrInventoryItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageItemNotFound, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, h.inventoryService.List(), fiber.StatusOK, domain.MessageSuccessDeleteItem)
}
