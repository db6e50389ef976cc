package routes

import (
	"smart-fridge-backend/internal/api/handlers"
	"smart-fridge-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	HomeHandler      handlers.HomeHandler
	DetectionHandler handlers.DetectionHandler
	InventoryHandler handlers.InventoryHandler
	CaptureHandler   handlers.CaptureHandler
	Middleware       middleware.Middleware
	StaticDir        string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Detection()
	c.Inventory()
	c.Static()
}

func (c *Config) GuestRoute() {
	c.App.Get("/", c.HomeHandler.Home)
	c.App.Get("/api/ping", c.HomeHandler.Ping)
}

func (c *Config) Detection() {
	c.App.Post("/upload", c.DetectionHandler.Upload)
	c.App.Get("/history", c.DetectionHandler.GetHistory)
	c.App.Post("/trigger_capture", c.CaptureHandler.TriggerCapture)
}

func (c *Config) Inventory() {
	c.App.Get("/inventory", c.InventoryHandler.GetInventory)
	c.App.Get("/get_inventory", c.InventoryHandler.GetInventory)
	c.App.Put("/inventory", c.InventoryHandler.UpdateItem)
	c.App.Delete("/inventory", c.InventoryHandler.DeleteItem)
	c.App.Post("/inventory", c.InventoryHandler.AddItem)
	c.App.Post("/add_item", c.InventoryHandler.AddItem)
}

// Static serves locally stored images; it is a no-op when images live in S3.
func (c *Config) Static() {
	if c.StaticDir == "" {
		return
	}
	c.App.Static("/static", c.StaticDir)
}
