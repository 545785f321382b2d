package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

type ContactHandler struct {
	Contact *services.ContactService
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var in services.ContactInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.Contact.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Info(c, "contact.submit", map[string]any{"message_id": m.ID})
	return created(c, "Message sent", fiber.Map{"id": m.ID})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	p := pageOf(c)
	msgs, total, err := h.Contact.List(c.UserContext(), domain.MessageStatus(c.Query("status")), p)
	if err != nil {
		return err
	}
	return paged(c, msgs, p, total)
}

func (h *ContactHandler) SetStatus(c *fiber.Ctx) error {
	var in struct {
		Status domain.MessageStatus `json:"status"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.Contact.SetStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.contact.status", map[string]any{"message_id": m.ID, "status": m.Status})
	return ok(c, m)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Contact.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.contact.delete", map[string]any{"message_id": id})
	return done(c, "Message deleted")
}
