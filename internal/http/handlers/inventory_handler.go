package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	avail, err := h.Inv.CheckAvailability(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, avail)
}

// SetStock serves PATCH /api/products/:id/stock.
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	var in struct {
		Stock *int `json:"stock"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	if in.Stock == nil {
		return domain.Invalid("stock is required")
	}
	id := c.Params("id")
	if err := h.Inv.SetStock(c.UserContext(), id, *in.Stock); err != nil {
		return err
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product_id": id, "qty": *in.Stock})
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, avail)
}
