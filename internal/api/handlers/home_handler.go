package handlers

import (
	"smart-fridge-backend/pkg/detection"
	"smart-fridge-backend/pkg/inventory"

	"github.com/gofiber/fiber/v2"
)

var endpoints = []string{
	"/upload - POST: Upload image for detection",
	"/inventory - GET: Get current inventory",
	"/get_inventory - GET: Get current inventory",
	"/inventory - PUT: Update inventory item",
	"/inventory - DELETE: Delete inventory item",
	"/add_item - POST: Manually add item",
	"/history - GET: Detection history",
	"/trigger_capture - POST: Request a camera capture",
}

type (
	HomeHandler interface {
		Home(c *fiber.Ctx) error
		Ping(c *fiber.Ctx) error
	}

	homeHandler struct {
		inventoryService inventory.InventoryService
		detectionService detection.DetectionService
	}
)

func NewHomeHandler(inventoryService inventory.InventoryService, detectionService detection.DetectionService) HomeHandler {
	return &homeHandler{
		inventoryService: inventoryService,
		detectionService: detectionService,
	}
}

func (h *homeHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "running",
		"message":         "Smart Fridge Backend API",
		"detector":        h.detectionService.DetectorName(),
		"endpoints":       endpoints,
		"inventory_count": h.inventoryService.Count(),
	})
}

func (h *homeHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "pong"})
}
