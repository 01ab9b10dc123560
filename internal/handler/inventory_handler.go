package handler

import (
	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetInventory lists stock records.
// GET /api/v1/inventory?location_type=&location_name=&product_id=
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	productID, err := queryID(c, "product_id")
	if err != nil {
		return fail(c, err)
	}

	records, err := h.service.List(c.UserContext(), a, repository.InventoryFilter{
		LocationType: model.LocationType(c.Query("location_type")),
		LocationName: c.Query("location_name"),
		ProductID:    productID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(records)
}

// GET /api/v1/inventory/summary
func (h *InventoryHandler) GetSummary(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	summary, err := h.service.Summary(c.UserContext(), a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// GetLocations lists warehouses and stores with their totals.
// GET /api/v1/inventory/locations?type=warehouse|store
func (h *InventoryHandler) GetLocations(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	locations, err := h.service.Locations(c.UserContext(), a, model.LocationType(c.Query("type")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(locations)
}

// POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	record, err := h.service.Adjust(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Stock updated successfully",
		"data":    record,
	})
}

// GET /api/v1/inventory/transactions?product_id=&limit=
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	productID, err := queryID(c, "product_id")
	if err != nil {
		return fail(c, err)
	}
	movements, err := h.service.Movements(c.UserContext(), a, productID, c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}
