package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in services.PlaceOrderInput
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.Order.Place(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			applog.Info(c, "order.place.fail", map[string]any{"reason": err.Error()})
		}
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":       o.ID,
		"order_number":   o.OrderNumber,
		"total":          o.Total.String(),
		"payment_method": o.PaymentMethod,
		"status":         o.Status,
	})
	return created(c, "Order created", o)
}

func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	p := pageOf(c)
	orders, total, err := h.Order.ListMine(c.UserContext(), currentUser(c).ID, p)
	if err != nil {
		return err
	}
	return paged(c, orders, p, total)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	o, err := h.Order.Get(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return err
	}
	return ok(c, o)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, err := h.Order.Cancel(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": o.ID})
	return ok(c, o)
}

// All serves the admin listing with ?status= and ?search= filters.
func (h *OrderHandler) All(c *fiber.Ctx) error {
	p := pageOf(c)
	f := repos.OrderFilter{Status: domain.OrderStatus(c.Query("status")), Search: c.Query("search")}
	orders, total, err := h.Order.ListAll(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return paged(c, orders, p, total)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.Order.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return ok(c, o)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Order.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.delete", map[string]any{"order_id": id})
	return done(c, "Order deleted")
}
