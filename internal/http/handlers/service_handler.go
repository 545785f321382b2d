package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

// ServiceHandler serves the marketing service pages.
type ServiceHandler struct {
	Content *services.ContentService
}

func (h *ServiceHandler) List(c *fiber.Ctx) error {
	f := repos.ServiceFilter{
		Category:        domain.ServiceCategory(c.Query("category")),
		Search:          c.Query("search"),
		IncludeInactive: c.QueryBool("all") && currentUser(c).IsAdmin(),
	}
	svcs, err := h.Content.ListServices(c.UserContext(), f)
	if err != nil {
		return err
	}
	return ok(c, svcs)
}

func (h *ServiceHandler) Detail(c *fiber.Ctx) error {
	svc, err := h.Content.GetService(c.UserContext(), c.Params("slug"), currentUser(c).IsAdmin())
	if err != nil {
		return err
	}
	return ok(c, svc)
}

func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in services.ServiceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	svc, err := h.Content.CreateService(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.service.create", map[string]any{"service_id": svc.ID})
	return created(c, "Service created", svc)
}

func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in services.ServiceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	svc, err := h.Content.UpdateService(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.service.update", map[string]any{"service_id": svc.ID})
	return ok(c, svc)
}

func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Content.DeleteService(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.service.delete", map[string]any{"service_id": id})
	return done(c, "Service deleted")
}
